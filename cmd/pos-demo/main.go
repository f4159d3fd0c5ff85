// Command pos-demo walks one order through the whole workflow on the
// console: seed a menu, take an order, watch the observers react, settle the
// bill and print the statement.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jcmexdev/cafe-pos/internal/billing"
	"github.com/jcmexdev/cafe-pos/internal/catalog"
	"github.com/jcmexdev/cafe-pos/internal/checkout"
	"github.com/jcmexdev/cafe-pos/internal/display"
	"github.com/jcmexdev/cafe-pos/internal/order"
	"github.com/jcmexdev/cafe-pos/internal/orderlog"
	"github.com/jcmexdev/cafe-pos/internal/orderlog/memory"
	"github.com/jcmexdev/cafe-pos/internal/payment"
	"github.com/jcmexdev/cafe-pos/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("pos-demo")
	if err := run(context.Background()); err != nil {
		slog.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	menu := catalog.NewCatalog("main", "Local Café Menu")
	seedMenu(menu)

	registry := order.NewRegistry()
	payments := payment.NewService()
	history := memory.New()
	recorder := orderlog.NewRecorder(history)

	o := registry.Create("walk-in")
	recorder.Arm(ctx, o.ID)
	if err := recorder.RecordCreated(ctx, o); err != nil {
		return err
	}
	o.Subscribe(recorder)
	o.Subscribe(display.NewKitchen(slog.Default()))
	o.Subscribe(display.NewBillingMonitor(slog.Default()))

	espresso, err := menu.Get("D1")
	if err != nil {
		return err
	}
	sandwich, err := menu.Get("F1")
	if err != nil {
		return err
	}

	if err := o.AddItem(espresso, 2); err != nil {
		return err
	}
	if err := o.AddItem(sandwich, 1); err != nil {
		return err
	}

	res, err := checkout.Run(ctx, o, payments, 0.15)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(billing.Render(res.Bill, o, "Local Café"))
	fmt.Println()

	entries, err := history.ListByOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s  %-15s status=%-10s items=%d total=%.2f\n",
			e.RecordedAt.Format("15:04:05"), e.Event, e.Status, e.LineCount, e.Total)
	}
	return nil
}

func seedMenu(menu *catalog.Catalog) {
	items := []struct {
		kind string
		f    catalog.Fields
	}{
		{"drink", catalog.Fields{ID: "D1", Name: "Espresso", Description: "Double shot", Price: 2.50, Size: "S"}},
		{"drink", catalog.Fields{ID: "D2", Name: "Iced Latte", Description: "With oat milk", Price: 3.80, Hot: boolPtr(false)}},
		{"food", catalog.Fields{ID: "F1", Name: "Sandwich", Description: "Ham and cheese", Price: 6.50, DietaryInfo: "Gluten"}},
		{"food", catalog.Fields{ID: "F2", Name: "Brownie", Description: "Chocolate", Price: 3.20, DietaryInfo: "Nuts"}},
	}
	for _, it := range items {
		item, err := catalog.New(it.kind, it.f)
		if err != nil {
			panic(err)
		}
		menu.Add(item)
	}
}

func boolPtr(b bool) *bool { return &b }
