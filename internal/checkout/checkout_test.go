package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/cafe-pos/internal/catalog"
	"github.com/jcmexdev/cafe-pos/internal/order"
	"github.com/jcmexdev/cafe-pos/internal/payment"
)

// fakeStep records what happened to it and fails on demand.
type fakeStep struct {
	name        string
	failExecute bool
	executed    bool
	compensated bool
}

func (s *fakeStep) Name() string { return s.name }

func (s *fakeStep) Execute(context.Context) error {
	s.executed = true
	if s.failExecute {
		return errors.New(s.name + " exploded")
	}
	return nil
}

func (s *fakeStep) Compensate(context.Context) error {
	s.compensated = true
	return nil
}

func TestOrchestratorRunsAllSteps(t *testing.T) {
	a := &fakeStep{name: "a"}
	b := &fakeStep{name: "b"}

	err := NewOrchestrator("O1", []Step{a, b}).Start(context.Background())
	require.NoError(t, err)
	assert.True(t, a.executed)
	assert.True(t, b.executed)
	assert.False(t, a.compensated)
	assert.False(t, b.compensated)
}

func TestOrchestratorCompensatesOnFailure(t *testing.T) {
	a := &fakeStep{name: "a"}
	boom := &fakeStep{name: "boom", failExecute: true}
	never := &fakeStep{name: "never"}

	err := NewOrchestrator("O1", []Step{a, boom, never}).Start(context.Background())
	require.Error(t, err)

	assert.True(t, a.compensated, "completed steps are compensated")
	assert.False(t, boom.compensated, "the failing step is not compensated")
	assert.False(t, never.executed, "later steps never run")
}

func settledOrder(t *testing.T) *order.Order {
	t.Helper()
	espresso, err := catalog.New("drink", catalog.Fields{ID: "D1", Name: "Espresso", Price: 2.50})
	require.NoError(t, err)

	o := order.NewOrder("O1", "C1")
	require.NoError(t, o.AddItem(espresso, 2))
	return o
}

func TestRunSettlesOrder(t *testing.T) {
	o := settledOrder(t)
	svc := payment.NewService()

	res, err := Run(context.Background(), o, svc, 0.15)
	require.NoError(t, err)

	assert.Equal(t, 5.00, res.Bill.Subtotal)
	assert.Equal(t, 0.75, res.Bill.Tax)
	assert.Equal(t, 5.75, res.Bill.Total)
	assert.Equal(t, payment.StatusPaid, res.Payment.Status)
	assert.Equal(t, res.Bill.Total, res.Payment.Amount)
	assert.Equal(t, order.StatusPreparing, o.Status())
}

func TestPrepareStepCompensationCancels(t *testing.T) {
	o := settledOrder(t)
	step := NewPrepareStep(o)

	require.NoError(t, step.Execute(context.Background()))
	assert.Equal(t, order.StatusPreparing, o.Status())

	require.NoError(t, step.Compensate(context.Background()))
	assert.Equal(t, order.StatusCancelled, o.Status())
}

// failingObserver trips every broadcast.
type failingObserver struct{}

func (failingObserver) OrderChanged(order.Snapshot) error {
	return errors.New("display is down")
}

func TestRunSurvivesBrokenSubscriber(t *testing.T) {
	o := settledOrder(t)
	o.Subscribe(&failingObserver{})
	svc := payment.NewService()

	// A broken display must not unwind a completed payment: the status
	// change was applied, only its notification failed.
	res, err := Run(context.Background(), o, svc, 0.15)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, res.Payment.Status)
	assert.Equal(t, order.StatusPreparing, o.Status())
}
