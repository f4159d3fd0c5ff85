// Package orderlog defines the append-only audit trail of order changes.
//
// Every broadcast an order makes can be captured as one immutable row. The
// log serves two purposes:
//
//  1. Observability: you can query exactly how an order evolved — which
//     lines were on it and what it cost after every change — and correlate
//     a row with a distributed trace via the trace_id field.
//
//  2. History for the presentation layer: the "order history" endpoint reads
//     this log instead of poking at live aggregates.
//
// It is an audit trail, not a store of record: the live order state lives in
// the in-memory registry and is not rebuilt from the log on restart.
package orderlog

import "time"

// Event names what kind of change produced a log entry. The observer
// protocol delivers post-mutation snapshots without saying which mutation
// ran, so Recorder infers the event by diffing against the previous entry.
type Event string

const (
	EventCreated       Event = "CREATED"
	EventItemsChanged  Event = "ITEMS_CHANGED"
	EventStatusChanged Event = "STATUS_CHANGED"
)

// Entry is a single row in the order log: a point-in-time snapshot of one
// order right after a change.
type Entry struct {
	// OrderID identifies the order this entry belongs to.
	OrderID string

	// Event classifies the change that produced this entry.
	Event Event

	// Status is the order status at the time of the change.
	Status string

	// LineCount and Total describe the order contents after the change.
	LineCount int
	Total     float64

	// TraceID is the W3C trace ID (32 hex chars) of the OpenTelemetry span
	// active when the entry was written. Empty when no span was active,
	// e.g. in unit tests or the console demo.
	TraceID string

	// SpanID pinpoints the exact span within the trace (16 hex chars).
	SpanID string

	// RecordedAt is the wall-clock time of the entry.
	RecordedAt time.Time
}
