// Package billing derives financial snapshots from orders. A Bill is frozen
// at generation time: later changes to the order do not flow into it.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/cafe-pos/internal/order"
)

// Bill is an immutable statement of what an order cost at a point in time.
type Bill struct {
	ID       string
	IssuedAt time.Time
	Subtotal float64
	Tax      float64
	Total    float64
}

// round2 rounds half away from zero at two decimal places. Subtotal, tax and
// total are each rounded independently — 15.50 at 15% yields tax 2.33 and
// total 17.83, never 17.82 from an unrounded intermediate.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Generate computes the bill for the order at the given tax rate. The rate is
// deliberately not range-checked: a negative or >1 rate produces a negative
// or outsized tax, exactly as asked.
func Generate(o *order.Order, billID string, taxRate float64) Bill {
	return generate(o.Snapshot(), billID, taxRate)
}

func generate(snap order.Snapshot, billID string, taxRate float64) Bill {
	sub := decimal.Zero
	for _, l := range snap.Lines {
		unit := decimal.NewFromFloat(l.UnitPrice())
		sub = sub.Add(unit.Mul(decimal.NewFromInt(int64(l.Qty))))
	}

	rate := decimal.NewFromFloat(taxRate)
	subtotal := round2(sub)
	tax := round2(sub.Mul(rate))
	total := round2(sub.Add(tax))

	return Bill{
		ID:       billID,
		IssuedAt: time.Now().UTC(),
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

// Render produces the human-readable statement for the bill. The order
// supplies the line detail; the bill supplies the frozen money figures.
func Render(b Bill, o *order.Order, cafeName string) string {
	snap := o.Snapshot()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", cafeName)
	fmt.Fprintf(&sb, "Bill ID: %s\n", b.ID)
	fmt.Fprintf(&sb, "Issued: %s\n", b.IssuedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Order ID: %s\n", snap.OrderID)
	sb.WriteString(strings.Repeat("-", 34) + "\n")
	for _, l := range snap.Lines {
		fmt.Fprintf(&sb, "%d x %s @ %.2f = %.2f\n", l.Qty, l.Item.Name, l.UnitPrice(), l.Total())
	}
	sb.WriteString(strings.Repeat("-", 34) + "\n")
	fmt.Fprintf(&sb, "Subtotal: %.2f\n", b.Subtotal)
	fmt.Fprintf(&sb, "Tax:      %.2f\n", b.Tax)
	fmt.Fprintf(&sb, "TOTAL:    %.2f", b.Total)
	return sb.String()
}
