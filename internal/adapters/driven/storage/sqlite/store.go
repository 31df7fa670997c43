package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ideabox/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ideabox/internal/core/domain"
	"github.com/custodia-labs/ideabox/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "ideas.db"

// Store is a SQLite-based storage that provides access to the
// idea repository through a wrapper type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ideabox/data/ideas.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ideabox", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// IdeaRepository returns an IdeaRepository interface backed by this store.
func (s *Store) IdeaRepository() driven.IdeaRepository {
	return &ideaRepository{store: s}
}

// migrate runs all pending migrations, each in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_ideas.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) apply(version int, script string) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(script); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Idea Repository ====================

// ideaRepository implements driven.IdeaRepository.
type ideaRepository struct {
	store *Store
}

var _ driven.IdeaRepository = (*ideaRepository)(nil)

// LoadAll returns every stored idea ordered by position.
func (r *ideaRepository) LoadAll(ctx context.Context) ([]domain.Idea, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, title, description, category, priority, status, author,
		       created_at, ai_refinement, image_url
		FROM ideas
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying ideas: %w", err)
	}
	defer rows.Close()

	ideas := make([]domain.Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ideas: %w", err)
	}
	return ideas, nil
}

// SaveAll replaces the stored collection in a single transaction.
func (r *ideaRepository) SaveAll(ctx context.Context, ideas []domain.Idea) (err error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM ideas"); err != nil {
		return fmt.Errorf("clearing ideas: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ideas (id, position, title, description, category, priority,
		                   status, author, created_at, ai_refinement, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range ideas {
		idea := &ideas[i]
		_, err = stmt.ExecContext(ctx,
			idea.ID,
			i,
			idea.Title,
			idea.Description,
			string(idea.Category),
			string(idea.Priority),
			string(idea.Status),
			idea.Author,
			idea.CreatedAt.UTC().Format(time.RFC3339Nano),
			nullString(idea.AIRefinement),
			nullString(idea.ImageURL),
		)
		if err != nil {
			return fmt.Errorf("inserting idea %s: %w", idea.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing ideas: %w", err)
	}
	return nil
}

func scanIdea(row *sql.Rows) (domain.Idea, error) {
	var (
		idea                                domain.Idea
		category, priority, status, created string
		refinement, imageURL                sql.NullString
	)
	err := row.Scan(
		&idea.ID,
		&idea.Title,
		&idea.Description,
		&category,
		&priority,
		&status,
		&idea.Author,
		&created,
		&refinement,
		&imageURL,
	)
	if err != nil {
		return domain.Idea{}, fmt.Errorf("scanning idea: %w", err)
	}

	idea.Category = domain.Category(category)
	idea.Priority = domain.Priority(priority)
	idea.Status = domain.Status(status)
	if !idea.Category.IsValid() || !idea.Priority.IsValid() || !idea.Status.IsValid() {
		return domain.Idea{}, fmt.Errorf("idea %s: stored enum out of range (%s/%s/%s)",
			idea.ID, category, priority, status)
	}

	idea.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return domain.Idea{}, fmt.Errorf("idea %s: parsing created_at: %w", idea.ID, err)
	}
	idea.CreatedAt = idea.CreatedAt.UTC()

	if refinement.Valid {
		idea.AIRefinement = &refinement.String
	}
	if imageURL.Valid {
		idea.ImageURL = &imageURL.String
	}
	return idea, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
