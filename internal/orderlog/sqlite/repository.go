// Package sqlite provides a SQLite-backed implementation of orderlog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa — the observer goroutine appends while the HTTP history endpoint may
// be reading the same order's rows.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/cafe-pos/internal/orderlog"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, which keeps the build trivial on Alpine.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// The table is append-only: each row is an immutable snapshot of an order
// right after a change. The latest row per order_id is the current state.
const schema = `
CREATE TABLE IF NOT EXISTS order_logs (
    -- Surrogate primary key — auto-incremented by SQLite.
    id           INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier of the order. Not UNIQUE: one row per change.
    order_id     TEXT    NOT NULL,

    -- Kind of change: CREATED, ITEMS_CHANGED, STATUS_CHANGED.
    event        TEXT    NOT NULL,

    -- Order status at the time of this row.
    status       TEXT    NOT NULL,

    -- Contents after the change.
    line_count   INTEGER NOT NULL DEFAULT 0,
    total        REAL    NOT NULL DEFAULT 0,

    -- W3C trace_id / span_id of the active OTel span, empty outside requests.
    trace_id     TEXT    NOT NULL DEFAULT '',
    span_id      TEXT    NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    recorded_at  TEXT    NOT NULL
);

-- Index for the most common query: "give me the history of order X in order".
CREATE INDEX IF NOT EXISTS idx_order_logs_order_id ON order_logs(order_id, recorded_at);

-- Index for the observability query: "find the order for trace Y".
CREATE INDEX IF NOT EXISTS idx_order_logs_trace_id ON order_logs(trace_id);
`

// Repository is the SQLite implementation of orderlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. Use ":memory:" for tests.
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes _pragma query parameters. WAL enables
	// concurrent readers; busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends a new order log entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_logs
			(order_id, event, status, line_count, total, trace_id, span_id, recorded_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		string(entry.Event),
		entry.Status,
		entry.LineCount,
		entry.Total,
		entry.TraceID,
		entry.SpanID,
		entry.RecordedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save order log for %q: %w", entry.OrderID, err)
	}
	return nil
}

// GetLatest returns the most recent log entry for the given order id.
func (r *Repository) GetLatest(ctx context.Context, orderID string) (*orderlog.Entry, error) {
	const q = `
		SELECT order_id, event, status, line_count, total, trace_id, span_id, recorded_at
		FROM   order_logs
		WHERE  order_id = ?
		ORDER  BY recorded_at DESC, id DESC
		LIMIT  1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, q, orderID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: order %q", orderlog.ErrNoEntries, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for %q: %w", orderID, err)
	}
	return entry, nil
}

// ListByOrder returns every entry for the order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]*orderlog.Entry, error) {
	const q = `
		SELECT order_id, event, status, line_count, total, trace_id, span_id, recorded_at
		FROM   order_logs
		WHERE  order_id = ?
		ORDER  BY recorded_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list for %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []*orderlog.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list for %q: %w", orderID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list for %q: %w", orderID, err)
	}
	return entries, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*orderlog.Entry, error) {
	var entry orderlog.Entry
	var event, recordedAt string
	err := s.Scan(
		&entry.OrderID,
		&event,
		&entry.Status,
		&entry.LineCount,
		&entry.Total,
		&entry.TraceID,
		&entry.SpanID,
		&recordedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Event = orderlog.Event(event)
	entry.RecordedAt, err = parseRFC3339(recordedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
