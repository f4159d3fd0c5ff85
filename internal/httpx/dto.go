package httpx

import "time"

type CreateMenuItemRequest struct {
	Kind        string  `json:"kind"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Available   *bool   `json:"available,omitempty"`
	DietaryInfo string  `json:"dietary_info,omitempty"`
	Size        string  `json:"size,omitempty"`
	Hot         *bool   `json:"hot,omitempty"`
}

type MenuItemResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
	DietaryInfo string  `json:"dietary_info,omitempty"`
	Size        string  `json:"size,omitempty"`
	Hot         *bool   `json:"hot,omitempty"`
}

type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

type CreateOrderRequest struct {
	CustomerID string `json:"customer_id"`
}

type AddOrderItemRequest struct {
	ItemID string `json:"item_id"`
	Qty    int    `json:"qty"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type OrderLineResponse struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customer_id"`
	Status     string              `json:"status"`
	Total      float64             `json:"total"`
	Lines      []OrderLineResponse `json:"lines"`
	CreatedAt  string              `json:"created_at"`
}

type BillResponse struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	IssuedAt  string  `json:"issued_at"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	Statement string  `json:"statement"`
}

type CheckoutResponse struct {
	Bill    BillResponse    `json:"bill"`
	Payment PaymentResponse `json:"payment"`
}

type ProcessPaymentRequest struct {
	Amount float64 `json:"amount"`
}

type PaymentResponse struct {
	ID     string     `json:"id"`
	Amount float64    `json:"amount"`
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

type HistoryEntryResponse struct {
	Event      string  `json:"event"`
	Status     string  `json:"status"`
	LineCount  int     `json:"line_count"`
	Total      float64 `json:"total"`
	TraceID    string  `json:"trace_id,omitempty"`
	RecordedAt string  `json:"recorded_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
