// Package checkout drives the settle-an-order flow: freeze a bill, charge
// the (simulated) payment, move the order to Preparing. Steps run in order
// and every completed step is compensated in reverse when a later one fails,
// leaving the order cancelled and the charge refunded instead of half-done.
package checkout

import (
	"context"
	"log/slog"
)

// Step is a single unit of work in the flow. Each step must have a
// compensating action to undo its effects.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator manages the execution of a collection of Steps for one order.
type Orchestrator struct {
	orderID string
	steps   []Step
}

// NewOrchestrator returns an orchestrator for the given order's steps.
func NewOrchestrator(orderID string, steps []Step) *Orchestrator {
	return &Orchestrator{orderID: orderID, steps: steps}
}

// Start runs the steps sequentially. If a step fails, the previously
// successful steps are compensated LIFO and the step's error is returned.
func (o *Orchestrator) Start(ctx context.Context) error {
	var completed []Step

	for _, step := range o.steps {
		slog.InfoContext(ctx, "executing checkout step", "order_id", o.orderID, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.ErrorContext(ctx, "checkout step failed, starting rollback",
				"order_id", o.orderID, "step", step.Name(), "error", err)
			o.rollback(ctx, completed)
			return err
		}
		// Track successful steps for potential compensation (LIFO).
		completed = append(completed, step)
	}

	slog.InfoContext(ctx, "checkout completed", "order_id", o.orderID)
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating checkout step", "order_id", o.orderID, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: failed to compensate checkout step",
				"order_id", o.orderID, "step", step.Name(), "error", err)
		}
	}
}
