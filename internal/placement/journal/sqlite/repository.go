// Package sqlite provides a SQLite-backed journal.Repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/storefront/internal/placement/journal"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS placement_journal (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    placement_id TEXT NOT NULL,
    status       TEXT NOT NULL,
    step         TEXT NOT NULL DEFAULT '',
    -- order document, STARTED rows only
    payload      TEXT,
    errors       TEXT NOT NULL DEFAULT '[]',
    trace_id     TEXT NOT NULL DEFAULT '',
    span_id      TEXT NOT NULL DEFAULT '',
    recorded_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_placement_journal_id ON placement_journal(placement_id, recorded_at);
CREATE INDEX IF NOT EXISTS idx_placement_journal_trace ON placement_journal(trace_id);
`

// Repository is the SQLite implementation of journal.Repository.
type Repository struct {
	db *sql.DB
}

var _ journal.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends an entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *journal.Entry) error {
	const q = `
		INSERT INTO placement_journal
			(placement_id, status, step, payload, errors, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.PlacementID,
		string(entry.Status),
		entry.Step,
		nullableString(entry.Payload),
		entry.Errors,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save journal entry for %q: %w", entry.PlacementID, err)
	}
	return nil
}

// Latest returns the most recent entry for a placement.
func (r *Repository) Latest(ctx context.Context, placementID string) (*journal.Entry, error) {
	const q = `
		SELECT placement_id, status, step, COALESCE(payload,''), errors,
		       trace_id, span_id, recorded_at
		FROM   placement_journal
		WHERE  placement_id = ?
		ORDER  BY recorded_at DESC, id DESC
		LIMIT  1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, q, placementID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", journal.ErrNotFound, placementID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest for %q: %w", placementID, err)
	}
	return entry, nil
}

// History returns every entry of a placement in insertion order.
func (r *Repository) History(ctx context.Context, placementID string) ([]journal.Entry, error) {
	const q = `
		SELECT placement_id, status, step, COALESCE(payload,''), errors,
		       trace_id, span_id, recorded_at
		FROM   placement_journal
		WHERE  placement_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, placementID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", placementID, err)
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: history for %q: %w", placementID, err)
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*journal.Entry, error) {
	var entry journal.Entry
	var recordedAt string
	err := s.Scan(
		&entry.PlacementID,
		&entry.Status,
		&entry.Step,
		&entry.Payload,
		&entry.Errors,
		&entry.TraceID,
		&entry.SpanID,
		&recordedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.RecordedAt, err = parseRFC3339(recordedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// nullableString stores NULL instead of empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
