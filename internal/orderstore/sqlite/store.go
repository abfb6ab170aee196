// Package sqlite persists placed orders in SQLite. The order document is
// stored as JSON next to its status columns, and every timeline entry is an
// append-only row.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jcmexdev/storefront/internal/checkout/domain"
	"github.com/jcmexdev/storefront/internal/checkout/ports"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    id              TEXT NOT NULL UNIQUE,
    status          TEXT NOT NULL,
    tracking_number TEXT NOT NULL DEFAULT '',
    placed_at       TEXT NOT NULL,
    document        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_timeline (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL REFERENCES orders(id),
    status      TEXT NOT NULL,
    recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_timeline_order ON order_timeline(order_id, id);
CREATE INDEX IF NOT EXISTS idx_orders_tracking ON orders(tracking_number);
`

const timeLayout = "2006-01-02T15:04:05.999999999Z"

// Store is the SQLite implementation of ports.OrderStore.
type Store struct {
	db    *sql.DB
	clock clockwork.Clock
}

var _ ports.OrderStore = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string, clock clockwork.Clock) (*Store, error) {
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
	return &Store{db: db, clock: clock}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Add(ctx context.Context, order domain.Order) error {
	doc, err := encodeDocument(order)
	if err != nil {
		return fmt.Errorf("sqlite: add %s: %w", order.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: add %s: %w", order.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, order.ID).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("sqlite: add %s: %w", order.ID, ports.ErrDuplicateOrder)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("sqlite: add %s: %w", order.ID, err)
	}

	const insertOrder = `
		INSERT INTO orders (id, status, tracking_number, placed_at, document)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insertOrder,
		order.ID,
		string(order.Status),
		order.TrackingNumber,
		order.Date.UTC().Format(timeLayout),
		doc,
	); err != nil {
		return fmt.Errorf("sqlite: add %s: %w", order.ID, err)
	}

	for _, entry := range order.Timeline {
		if err := appendTimeline(ctx, tx, order.ID, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: add %s: %w", order.ID, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, tracking_number, document FROM orders ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("sqlite: list orders: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	_ = rows.Close()

	// timelines are read after the cursor is released; the pool has one connection
	for i := range out {
		if out[i].Timeline, err = s.timeline(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (domain.Order, error) {
	row := s.db.QueryRowContext(ctx, `SELECT status, tracking_number, document FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("sqlite: get %s: %w", id, ports.ErrOrderNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlite: get %s: %w", id, err)
	}
	if o.Timeline, err = s.timeline(ctx, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, trackingNumber string) (domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlite: update %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
		UPDATE orders
		SET    status = ?,
		       tracking_number = CASE WHEN ? = '' THEN tracking_number ELSE ? END
		WHERE  id = ?`
	res, err := tx.ExecContext(ctx, q, string(status), trackingNumber, trackingNumber, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlite: update %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Order{}, fmt.Errorf("sqlite: update %s: %w", id, ports.ErrOrderNotFound)
	}

	entry := domain.TimelineEntry{Status: string(status), Date: s.clock.Now()}
	if err := appendTimeline(ctx, tx, id, entry); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("sqlite: update %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *Store) timeline(ctx context.Context, id string) ([]domain.TimelineEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, recorded_at FROM order_timeline WHERE order_id = ? ORDER BY id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: timeline %s: %w", id, err)
	}
	defer rows.Close()

	var out []domain.TimelineEntry
	for rows.Next() {
		var e domain.TimelineEntry
		var at string
		if err := rows.Scan(&e.Status, &at); err != nil {
			return nil, fmt.Errorf("sqlite: timeline %s: %w", id, err)
		}
		if e.Date, err = parseRFC3339(at); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendTimeline(ctx context.Context, db execer, id string, e domain.TimelineEntry) error {
	const q = `INSERT INTO order_timeline (order_id, status, recorded_at) VALUES (?, ?, ?)`
	if _, err := db.ExecContext(ctx, q, id, e.Status, e.Date.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("sqlite: append timeline %s: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (domain.Order, error) {
	var status, tracking, doc string
	if err := s.Scan(&status, &tracking, &doc); err != nil {
		return domain.Order{}, err
	}
	var o domain.Order
	if err := json.Unmarshal([]byte(doc), &o); err != nil {
		return domain.Order{}, fmt.Errorf("decode document: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	o.TrackingNumber = tracking
	return o, nil
}

// encodeDocument serialises everything except the mutable parts, which live
// in their own columns and table.
func encodeDocument(o domain.Order) (string, error) {
	o.Timeline = nil
	o.Status = ""
	o.TrackingNumber = ""
	b, err := json.Marshal(o)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
