// Package memory provides an in-memory orderlog.Repository for tests and for
// running the POS without a database on disk.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jcmexdev/cafe-pos/internal/orderlog"
)

// Repository keeps entries in a per-order slice, append order preserved.
type Repository struct {
	mu      sync.RWMutex
	entries map[string][]*orderlog.Entry
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{entries: make(map[string][]*orderlog.Entry)}
}

// Save appends a copy of the entry.
func (r *Repository) Save(_ context.Context, entry *orderlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *entry
	r.entries[entry.OrderID] = append(r.entries[entry.OrderID], &cp)
	return nil
}

// GetLatest returns the last appended entry for the order.
func (r *Repository) GetLatest(_ context.Context, orderID string) (*orderlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[orderID]
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: order %q", orderlog.ErrNoEntries, orderID)
	}
	cp := *list[len(list)-1]
	return &cp, nil
}

// ListByOrder returns all entries for the order, oldest first.
func (r *Repository) ListByOrder(_ context.Context, orderID string) ([]*orderlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[orderID]
	out := make([]*orderlog.Entry, len(list))
	for i, e := range list {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}
