// Package store persists HCP interaction records in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS hcp_interactions (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	hcp_name         TEXT NOT NULL,
	interaction_type TEXT NOT NULL,
	summary          TEXT NOT NULL,
	sentiment        TEXT NOT NULL,
	next_step        TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hcp_interactions_name ON hcp_interactions(hcp_name);
`

// Interaction is one logged touchpoint with a healthcare provider.
type Interaction struct {
	ID        int64
	HCPName   string
	Type      string
	Summary   string
	Sentiment string
	NextStep  string
	CreatedAt time.Time
}

// Store wraps the SQLite database. Safe for concurrent use; isolation is the
// database's own (one implicit transaction per statement).
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new interaction and returns its id.
func (s *Store) Create(ctx context.Context, rec Interaction) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO hcp_interactions (hcp_name, interaction_type, summary, sentiment, next_step, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.HCPName, rec.Type, rec.Summary, rec.Sentiment, rec.NextStep, rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert interaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read insert id: %w", err)
	}
	return id, nil
}

// UpdateSummary replaces the summary of the record with the given id.
// Returns false if no such record exists.
func (s *Store) UpdateSummary(ctx context.Context, id int64, summary string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE hcp_interactions SET summary = ? WHERE id = ?`, summary, id)
	if err != nil {
		return false, fmt.Errorf("update interaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// SearchNames returns HCP names of interactions whose hcp_name contains the
// query (case-insensitive substring match), in insertion order.
func (s *Store) SearchNames(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT hcp_name FROM hcp_interactions
		 WHERE LOWER(hcp_name) LIKE '%' || LOWER(?) || '%' ORDER BY id`, query)
	if err != nil {
		return nil, fmt.Errorf("search interactions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Get returns the interaction with the given id, or nil if it doesn't exist.
func (s *Store) Get(ctx context.Context, id int64) (*Interaction, error) {
	var rec Interaction
	err := s.db.QueryRowContext(ctx,
		`SELECT id, hcp_name, interaction_type, summary, sentiment, next_step, created_at
		 FROM hcp_interactions WHERE id = ?`, id).
		Scan(&rec.ID, &rec.HCPName, &rec.Type, &rec.Summary, &rec.Sentiment, &rec.NextStep, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get interaction %d: %w", id, err)
	}
	return &rec, nil
}

// Recent returns up to limit interactions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hcp_name, interaction_type, summary, sentiment, next_step, created_at
		 FROM hcp_interactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var rec Interaction
		if err := rows.Scan(&rec.ID, &rec.HCPName, &rec.Type, &rec.Summary, &rec.Sentiment, &rec.NextStep, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
