// Package display holds the console-facing order observers: the kitchen view
// and the running-total billing view. Both are presentation concerns; per the
// usual UI policy they swallow their own failures rather than bubbling them
// back into the mutation that triggered the broadcast.
package display

import (
	"log/slog"

	"github.com/jcmexdev/cafe-pos/internal/order"
)

// Kitchen logs every order change the kitchen cares about.
type Kitchen struct {
	log *slog.Logger
}

func NewKitchen(log *slog.Logger) *Kitchen {
	if log == nil {
		log = slog.Default()
	}
	return &Kitchen{log: log.With("display", "kitchen")}
}

// OrderChanged implements order.Observer.
func (k *Kitchen) OrderChanged(s order.Snapshot) error {
	k.log.Info("order changed",
		"order_id", s.OrderID,
		"status", string(s.Status),
		"items", len(s.Lines),
	)
	return nil
}

// BillingMonitor logs the running subtotal after every change, the hook a
// real UI would use to refresh the bill preview.
type BillingMonitor struct {
	log *slog.Logger
}

func NewBillingMonitor(log *slog.Logger) *BillingMonitor {
	if log == nil {
		log = slog.Default()
	}
	return &BillingMonitor{log: log.With("display", "billing")}
}

// OrderChanged implements order.Observer.
func (b *BillingMonitor) OrderChanged(s order.Snapshot) error {
	b.log.Info("order changed",
		"order_id", s.OrderID,
		"subtotal", s.Total,
	)
	return nil
}
