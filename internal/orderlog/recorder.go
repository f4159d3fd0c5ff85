package orderlog

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/cafe-pos/internal/order"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and returns
// its trace_id and span_id as hex strings. Both come back empty when the
// context carries no active span (unit tests, the console demo) — callers
// and the schema handle that gracefully.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// Recorder bridges the order's observer protocol to the log: subscribe it to
// an order and every broadcast becomes one appended Entry.
//
// The observer callback carries no context, so the recorder keeps, per order,
// the context it was last armed with (Arm) to pick up trace ids from the
// request that triggered the mutation. Keying by order id keeps concurrent
// requests against different orders from stamping each other's trace ids.
// Without arming, entries are written with context.Background and empty
// trace fields.
type Recorder struct {
	repo Repository

	mu    sync.Mutex
	armed map[string]context.Context
	last  map[string]order.Status
}

// NewRecorder returns a recorder appending to the given repository.
func NewRecorder(repo Repository) *Recorder {
	return &Recorder{
		repo:  repo,
		armed: make(map[string]context.Context),
		last:  make(map[string]order.Status),
	}
}

// Arm associates ctx with the order about to be mutated, so the resulting
// entry carries that operation's trace. The arming lasts until the order's
// next Arm call; single-writer-per-order discipline makes that safe.
func (r *Recorder) Arm(ctx context.Context, orderID string) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed[orderID] = ctx
	return r
}

// RecordCreated writes the initial entry for a freshly created order.
// Creation itself does not broadcast (there are no subscribers yet), so the
// collaborator that called Registry.Create appends this one explicitly.
func (r *Recorder) RecordCreated(ctx context.Context, o *order.Order) error {
	s := o.Snapshot()
	r.mu.Lock()
	r.last[s.OrderID] = s.Status
	r.mu.Unlock()

	ti := ExtractTraceInfo(ctx)
	return r.repo.Save(ctx, &Entry{
		OrderID:    s.OrderID,
		Event:      EventCreated,
		Status:     string(s.Status),
		LineCount:  len(s.Lines),
		Total:      s.Total,
		TraceID:    ti.TraceID,
		SpanID:     ti.SpanID,
		RecordedAt: time.Now().UTC(),
	})
}

// OrderChanged implements order.Observer.
func (r *Recorder) OrderChanged(s order.Snapshot) error {
	r.mu.Lock()
	ctx, ok := r.armed[s.OrderID]
	if !ok {
		ctx = context.Background()
	}
	event := r.classify(s)
	r.mu.Unlock()

	ti := ExtractTraceInfo(ctx)
	return r.repo.Save(ctx, &Entry{
		OrderID:    s.OrderID,
		Event:      event,
		Status:     string(s.Status),
		LineCount:  len(s.Lines),
		Total:      s.Total,
		TraceID:    ti.TraceID,
		SpanID:     ti.SpanID,
		RecordedAt: time.Now().UTC(),
	})
}

// classify infers the event kind from the previous status seen for the same
// order: a status change is a STATUS_CHANGED entry, anything else is
// ITEMS_CHANGED. Orders start in New, so a first-seen broadcast is measured
// against that. Called with r.mu held.
func (r *Recorder) classify(s order.Snapshot) Event {
	prev, seen := r.last[s.OrderID]
	if !seen {
		prev = order.StatusNew
	}
	r.last[s.OrderID] = s.Status
	if prev != s.Status {
		return EventStatusChanged
	}
	return EventItemsChanged
}
