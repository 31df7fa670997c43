// Package domain defines the core business entities for ideabox.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types and the pure logic over them:
//
//   - Idea: A proposal submitted to the innovation program
//   - Status, Priority, Category: Closed enumerations with validation
//   - The status transition table (NextStatuses, CheckTransition)
//   - Filter: Status and search predicate for list views
//   - StatusCounts, CategoryHistogram: Aggregates for reporting
//   - EnrichmentStatus: Observable state of AI enrichment requests
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import the Go
// standard library and golang.org/x/text. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, golang.org/x/text
//   - Cannot Import: Any internal/ package, any other external dependency
package domain
