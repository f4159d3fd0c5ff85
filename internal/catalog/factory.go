package catalog

import (
	"fmt"
	"strings"
)

// ErrInvalidVariant is returned by New for an unknown item kind.
var ErrInvalidVariant = fmt.Errorf("catalog: invalid item variant")

// Fields carries the attributes common to every variant plus the optional
// variant-specific ones. Zero values for the optional fields mean "use the
// documented default" (drink: size M, hot; food: no dietary info).
type Fields struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Available   *bool // nil means available

	DietaryInfo string
	Size        string
	Hot         *bool // nil means hot
}

// New constructs an Item for the given variant tag. The tag is trimmed and
// matched case-insensitively; both the short ("drink") and long ("drinkitem")
// spellings are accepted.
func New(variant string, f Fields) (Item, error) {
	item := Item{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		Available:   true,
	}
	if f.Available != nil {
		item.Available = *f.Available
	}

	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "food", "fooditem":
		item.Kind = KindFood
		item.DietaryInfo = f.DietaryInfo
	case "drink", "drinkitem":
		item.Kind = KindDrink
		item.Size = "M"
		if f.Size != "" {
			item.Size = f.Size
		}
		item.Hot = true
		if f.Hot != nil {
			item.Hot = *f.Hot
		}
	default:
		return Item{}, fmt.Errorf("%w: %q", ErrInvalidVariant, variant)
	}

	return item, nil
}
