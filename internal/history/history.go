// Package history records a small provenance ledger of past runs in a
// SQLite database, so a later session can answer "what seed produced
// that render". Grounded on the teacher's modernc.org/sqlite (pure-Go,
// cgo-free driver) and github.com/google/uuid dependencies — both
// already in its go.mod for its Go-interop test fixtures — repurposed
// here to their more natural use: a local embedded database and
// opaque run identifiers.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is a handle on the run ledger database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	source_path  TEXT NOT NULL,
	seed         INTEGER NOT NULL,
	generations  INTEGER NOT NULL,
	turn_angle   REAL NOT NULL,
	width        REAL NOT NULL,
	distance     REAL NOT NULL,
	module_count INTEGER NOT NULL,
	format       TEXT NOT NULL,
	created_at   TEXT NOT NULL
);`
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("history: creating schema: %w", err)
	}
	return nil
}

// Run is one ledger entry. ID is assigned by Record if left empty.
type Run struct {
	ID          string
	SourcePath  string
	Seed        int64
	Generations int
	TurnAngle   float64
	Width       float64
	Distance    float64
	ModuleCount int
	Format      string
	CreatedAt   time.Time
}

// Record inserts run into the ledger, assigning it a UUID if ID is
// unset, and returns the assigned ID.
func (s *Store) Record(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, source_path, seed, generations, turn_angle, width, distance, module_count, format, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourcePath, run.Seed, run.Generations, run.TurnAngle, run.Width, run.Distance,
		run.ModuleCount, run.Format, run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("history: recording run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the n most recently recorded runs against sourcePath,
// newest first. An empty sourcePath matches every run.
func (s *Store) Recent(ctx context.Context, sourcePath string, n int) ([]Run, error) {
	query := `SELECT id, source_path, seed, generations, turn_angle, width, distance, module_count, format, created_at
		FROM runs`
	args := []any{}
	if sourcePath != "" {
		query += " WHERE source_path = ?"
		args = append(args, sourcePath)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, n)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: querying runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.SourcePath, &r.Seed, &r.Generations, &r.TurnAngle, &r.Width,
			&r.Distance, &r.ModuleCount, &r.Format, &created); err != nil {
			return nil, fmt.Errorf("history: scanning run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
