package order

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusNew       Status = "New"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus maps the wire spelling of a status to the enum. The bool
// reports whether the input named a known status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusPreparing, StatusReady, StatusCancelled:
		return Status(s), true
	}
	return "", false
}
