package orderlog

import (
	"context"
	"errors"
)

// ErrNoEntries is returned when an order has no log entries yet.
var ErrNoEntries = errors.New("orderlog: no entries")

// Repository is the port for persisting order log entries. The rest of the
// system depends on this abstraction, not on SQLite directly, so the
// implementation can be swapped for in-memory (tests) or anything else.
type Repository interface {
	// Save appends a new entry. The log is append-only; entries are never
	// updated or deleted.
	Save(ctx context.Context, entry *Entry) error

	// GetLatest returns the most recent entry for the order, or ErrNoEntries.
	GetLatest(ctx context.Context, orderID string) (*Entry, error)

	// ListByOrder returns all entries for the order, oldest first.
	ListByOrder(ctx context.Context, orderID string) ([]*Entry, error)
}
