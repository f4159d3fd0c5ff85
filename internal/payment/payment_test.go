package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAlwaysPays(t *testing.T) {
	svc := NewService()

	// The simulation deliberately accepts any amount, zero and negative
	// included. This is intended behavior, not a missing validation.
	for _, amount := range []float64{10.50, 0.0, -1.0} {
		p := svc.Process(amount)
		assert.Equal(t, StatusPaid, p.Status)
		assert.Equal(t, amount, p.Amount)
		assert.NotEmpty(t, p.ID)
		require.NotNil(t, p.PaidAt)
	}
}

func TestProcessGeneratesUniqueIDs(t *testing.T) {
	svc := NewService()
	a := svc.Process(1.00)
	b := svc.Process(1.00)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRefundIsPlaceholder(t *testing.T) {
	svc := NewService()

	// Refund does not reverse anything: any id is accepted and the record
	// comes back Paid with zero amount.
	p := svc.Refund("unknown-payment")
	assert.Equal(t, "unknown-payment", p.ID)
	assert.Equal(t, StatusPaid, p.Status)
	assert.Zero(t, p.Amount)
	require.NotNil(t, p.PaidAt)
}
