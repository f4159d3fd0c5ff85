package catalog

import (
	"fmt"
	"sync"
)

// ErrNotFound is returned by operations on an item id the catalog does not hold.
var ErrNotFound = fmt.Errorf("catalog: item not found")

// Catalog owns the menu items for one café session, keyed by item id.
// Listing order is the insertion order of the ids, kept explicitly so that
// List is deterministic for a given sequence of Adds.
type Catalog struct {
	ID    string
	Title string

	mu    sync.RWMutex
	items map[string]Item
	ids   []string
}

// NewCatalog returns an empty catalog.
func NewCatalog(id, title string) *Catalog {
	return &Catalog{
		ID:    id,
		Title: title,
		items: make(map[string]Item),
	}
}

// Add inserts the item, or overwrites an existing item with the same id.
// Last write wins; overwriting keeps the original insertion position.
func (c *Catalog) Add(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[item.ID]; !exists {
		c.ids = append(c.ids, item.ID)
	}
	c.items[item.ID] = item
}

// Remove deletes the item with the given id.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(c.items, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
	return nil
}

// SetAvailability toggles whether the item can be added to orders.
func (c *Catalog) SetAvailability(id string, available bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, exists := c.items[id]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	item.Available = available
	c.items[id] = item
	return nil
}

// Get returns a copy of the item with the given id.
func (c *Catalog) Get(id string) (Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[id]
	if !exists {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item, nil
}

// List returns a snapshot of the items in insertion order, optionally
// filtered down to the currently available ones.
func (c *Catalog) List(onlyAvailable bool) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Item, 0, len(c.ids))
	for _, id := range c.ids {
		item := c.items[id]
		if onlyAvailable && !item.Available {
			continue
		}
		out = append(out, item)
	}
	return out
}
