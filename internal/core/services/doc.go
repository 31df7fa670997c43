// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// IdeaStore owns the idea collection, EnrichmentService runs AI
// requests against it, and SettingsService maps the config store
// onto domain settings.
package services
