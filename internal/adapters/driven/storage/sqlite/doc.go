// Package sqlite provides a SQLite-based implementation of the idea repository.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Ideas keep an explicit position column so insertion order survives a reload.
//
// # Data Location
//
// By default, the database is stored at ~/.ideabox/data/ideas.db
//
// # Thread Safety
//
// All operations are thread-safe. SaveAll replaces the collection inside one
// transaction, so readers never observe a partial write.
package sqlite
