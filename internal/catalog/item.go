// Package catalog holds the menu: the sellable items of the café and the
// keyed collection that owns them.
package catalog

// Kind discriminates the two item variants the café sells.
type Kind string

const (
	KindFood  Kind = "food"
	KindDrink Kind = "drink"
)

// Item is a sellable menu entry. It is a value type: the catalog hands out
// copies, and an order line freezes the copy it was given at add time, so
// later catalog edits never rewrite history.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Available   bool
	Kind        Kind

	// Food only.
	DietaryInfo string

	// Drink only.
	Size string
	Hot  bool
}
