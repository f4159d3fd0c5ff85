// Package order implements the order aggregate: an ordered set of lines plus
// a status, observed by any number of subscribers. Every successful mutation
// broadcasts exactly once, synchronously, before the call returns.
package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/jcmexdev/cafe-pos/internal/catalog"
)

var (
	// ErrNotFound is returned when an order line (or, from the registry, an
	// order) does not exist.
	ErrNotFound = fmt.Errorf("order: not found")
	// ErrInvalidQuantity is returned for a non-positive quantity.
	ErrInvalidQuantity = fmt.Errorf("order: qty must be > 0")
	// ErrUnavailable is returned when the item being added is not available.
	ErrUnavailable = fmt.Errorf("order: item not available")
)

// Order is the aggregate root. All mutating operations on one Order are
// serialized by its mutex, and each mutation runs its broadcast while still
// holding the lock, so no second mutation can interleave before the first
// one's subscribers have seen it.
type Order struct {
	ID         string
	CustomerID string
	CreatedAt  time.Time

	mu        sync.Mutex
	status    Status
	lines     []Line
	observers []Observer
}

// NewOrder returns an order in status New with no lines.
func NewOrder(id, customerID string) *Order {
	return &Order{
		ID:         id,
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC(),
		status:     StatusNew,
	}
}

// AddItem adds qty units of the item. If the order already has a line for
// the same item id the quantity is merged into it, otherwise a new line is
// appended. Availability is checked before quantity, so an unavailable item
// with qty 0 reports ErrUnavailable. A non-nil error that is a *NotifyError
// means the item WAS added but some subscribers failed.
func (o *Order) AddItem(item catalog.Item, qty int) error {
	if !item.Available {
		return fmt.Errorf("%w: %s", ErrUnavailable, item.Name)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	merged := false
	for i := range o.lines {
		if o.lines[i].Item.ID == item.ID {
			o.lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		o.lines = append(o.lines, Line{Item: item, Qty: qty})
	}
	return o.broadcast()
}

// RemoveItem drops the line for the given item id. The order is unchanged
// when no line matches.
func (o *Order) RemoveItem(itemID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.lines {
		if o.lines[i].Item.ID == itemID {
			o.lines = append(o.lines[:i], o.lines[i+1:]...)
			return o.broadcast()
		}
	}
	return fmt.Errorf("%w: item %s not in order", ErrNotFound, itemID)
}

// SetStatus assigns the new status unconditionally. The aggregate keeps no
// transition table; which transitions are sensible is the caller's business
// (the original system drove Preparing→Ready from a UI timer, for example).
func (o *Order) SetStatus(s Status) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status = s
	return o.broadcast()
}

// Status returns the current status.
func (o *Order) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Total sums the line totals. Zero for an empty order.
func (o *Order) Total() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalLocked()
}

func (o *Order) totalLocked() float64 {
	var total float64
	for _, l := range o.lines {
		total += l.Total()
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (o *Order) Lines() []Line {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Line, len(o.lines))
	copy(out, o.lines)
	return out
}

// Subscribe registers the observer for future broadcasts. Subscribing an
// already-registered observer is a no-op, so double delivery cannot happen.
func (o *Order) Subscribe(obs Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, existing := range o.observers {
		if existing == obs {
			return
		}
	}
	o.observers = append(o.observers, obs)
}

// Unsubscribe removes the observer. Unsubscribing an observer that is not
// registered is a no-op.
func (o *Order) Unsubscribe(obs Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, existing := range o.observers {
		if existing == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

// Snapshot captures the current state in one consistent read: the same view
// subscribers receive on a broadcast.
func (o *Order) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Order) snapshotLocked() Snapshot {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return Snapshot{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		CreatedAt:  o.CreatedAt,
		Status:     o.status,
		Lines:      lines,
		Total:      o.totalLocked(),
	}
}

// broadcast delivers the change to every observer in subscription order.
// A failing observer never blocks delivery to the ones after it; their
// errors are collected and surfaced together so the caller can decide
// whether subscriber trouble matters to it. Called with o.mu held, which is
// what makes mutation+broadcast atomic with respect to other mutations.
func (o *Order) broadcast() error {
	snap := o.snapshotLocked()
	var failed []error
	for _, obs := range o.observers {
		if err := obs.OrderChanged(snap); err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return &NotifyError{Errs: failed}
	}
	return nil
}
