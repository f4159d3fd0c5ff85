package order

import "github.com/jcmexdev/cafe-pos/internal/catalog"

// Line pairs one menu item with a quantity. Item is a value copy frozen at
// the moment the item was first added, so a later catalog edit (price change,
// availability toggle, removal) does not reach back into open orders.
type Line struct {
	Item catalog.Item
	Qty  int
}

// UnitPrice is the price captured at add time.
func (l Line) UnitPrice() float64 {
	return l.Item.Price
}

// Total is unit price times quantity.
func (l Line) Total() float64 {
	return l.UnitPrice() * float64(l.Qty)
}
