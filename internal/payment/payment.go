// Package payment simulates a payment gateway. Every charge succeeds; the
// Failed status exists so a real backend can slot in behind the same types
// without changing callers.
package payment

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a payment.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
	StatusFailed  Status = "Failed"
)

// Payment is the record returned by the service. PaidAt is nil until the
// payment completes.
type Payment struct {
	ID     string
	Amount float64
	PaidAt *time.Time
	Status Status
}

// Service is the simulated gateway. It remembers the charges it has made so
// the demo and the checkout flow can refund by payment id.
type Service struct {
	mu       sync.Mutex
	payments map[string]float64
}

// NewService returns a fresh simulation with no payment history.
func NewService() *Service {
	return &Service{payments: make(map[string]float64)}
}

// Process charges the given amount. The amount is deliberately unvalidated:
// zero and negative charges "succeed" just like positive ones. This mirrors
// the system it simulates and is covered by tests as intended behavior.
func (s *Service) Process(amount float64) Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p := Payment{
		ID:     uuid.NewString(),
		Amount: amount,
		PaidAt: &now,
		Status: StatusPaid,
	}
	s.payments[p.ID] = amount
	return p
}

// Refund is a non-functional placeholder: it accepts any payment id, known
// or not, and returns a Paid record with zero amount. It does not reverse
// the original charge.
func (s *Service) Refund(paymentID string) Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	return Payment{
		ID:     paymentID,
		Amount: 0,
		PaidAt: &now,
		Status: StatusPaid,
	}
}
