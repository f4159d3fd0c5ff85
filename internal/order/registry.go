package order

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry creates and looks up orders for one café session. It enforces no
// business rules of its own; it only hands out ids and keeps the orders
// reachable for the lifetime of the process.
type Registry struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{orders: make(map[string]*Order)}
}

// Create allocates a fresh order in status New for the given customer
// reference and stores it under a generated id.
func (r *Registry) Create(customerRef string) *Order {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := NewOrder(uuid.NewString(), customerRef)
	r.orders[o.ID] = o
	return o
}

// Get returns the order with the given id.
func (r *Registry) Get(id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return o, nil
}
