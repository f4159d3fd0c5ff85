package order

import (
	"errors"
	"time"
)

// Snapshot is the immutable view of an order delivered to subscribers: the
// post-mutation state captured in one consistent read. Handing out a snapshot
// rather than the live aggregate keeps observers from re-entering the order's
// lock and from mutating state behind its back.
type Snapshot struct {
	OrderID    string
	CustomerID string
	CreatedAt  time.Time
	Status     Status
	Lines      []Line
	Total      float64
}

// Observer is the single capability a subscriber needs: react to a change in
// an order. Delivery is synchronous, so implementations should return
// quickly. Observers are tracked by identity, so implementations must be
// comparable — in practice, pointer types.
type Observer interface {
	OrderChanged(s Snapshot) error
}

// NotifyError reports that a mutation was applied but one or more subscribers
// failed to handle the resulting broadcast. The mutation itself stands;
// callers that only care about the mutation can detect this case with
// errors.As and carry on.
type NotifyError struct {
	// Errs holds one entry per failed subscriber, in delivery order.
	Errs []error
}

func (e *NotifyError) Error() string {
	return "order: notify subscribers: " + errors.Join(e.Errs...).Error()
}

func (e *NotifyError) Unwrap() []error { return e.Errs }
