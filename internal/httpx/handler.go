package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcmexdev/cafe-pos/internal/billing"
	"github.com/jcmexdev/cafe-pos/internal/catalog"
	"github.com/jcmexdev/cafe-pos/internal/checkout"
	"github.com/jcmexdev/cafe-pos/internal/order"
	"github.com/jcmexdev/cafe-pos/internal/orderlog"
	"github.com/jcmexdev/cafe-pos/internal/payment"
	"github.com/jcmexdev/cafe-pos/internal/pkg/cache"
)

// billCacheTTL bounds how long a rendered statement stays cached; bills are
// frozen snapshots, so staleness is not a correctness concern.
const billCacheTTL = 15 * time.Minute

// Handler exposes the POS core over HTTP. It is purely a collaborator: all
// business rules live in the domain packages, the handler only translates.
type Handler struct {
	menu     *catalog.Catalog
	registry *order.Registry
	payments *payment.Service
	history  orderlog.Repository
	recorder *orderlog.Recorder

	// observers are subscribed to every order this handler creates.
	observers []order.Observer

	cache    cache.Cache // nil-safe: caching skipped if nil
	taxRate  float64
	cafeName string

	// onCheckedOut, when set, is called after a successful checkout. The
	// server uses it to schedule the preparing→ready timer; the core never
	// owns that clock.
	onCheckedOut func(orderID string)
}

// NewHandler wires the handler. history and c may be nil; observers may be
// empty. The recorder, when non-nil, is subscribed first so the audit trail
// sees every change before the displays do.
func NewHandler(
	menu *catalog.Catalog,
	registry *order.Registry,
	payments *payment.Service,
	history orderlog.Repository,
	recorder *orderlog.Recorder,
	observers []order.Observer,
	c cache.Cache,
	taxRate float64,
	cafeName string,
	onCheckedOut func(orderID string),
) *Handler {
	return &Handler{
		menu:         menu,
		registry:     registry,
		payments:     payments,
		history:      history,
		recorder:     recorder,
		observers:    observers,
		cache:        c,
		taxRate:      taxRate,
		cafeName:     cafeName,
		onCheckedOut: onCheckedOut,
	}
}

// --- menu ---

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	onlyAvailable, _ := strconv.ParseBool(r.URL.Query().Get("available"))
	items := h.menu.List(onlyAvailable)

	out := make([]MenuItemResponse, len(items))
	for i, it := range items {
		out[i] = mapItemToResponse(it)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id and name are required")
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "price must be non-negative")
		return
	}

	item, err := catalog.New(req.Kind, catalog.Fields{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Available:   req.Available,
		DietaryInfo: req.DietaryInfo,
		Size:        req.Size,
		Hot:         req.Hot,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_variant", err.Error())
		return
	}

	h.menu.Add(item)
	writeJSON(w, http.StatusCreated, mapItemToResponse(item))
}

func (h *Handler) RemoveMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.menu.Remove(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetMenuItemAvailability(w http.ResponseWriter, r *http.Request) {
	var req SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.menu.SetAvailability(id, req.Available); err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.menu.Get(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapItemToResponse(item))
}

// --- orders ---

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id is required")
		return
	}

	o := h.registry.Create(req.CustomerID)
	if h.recorder != nil {
		if err := h.recorder.RecordCreated(r.Context(), o); err != nil {
			slog.WarnContext(r.Context(), "order log write failed", "order_id", o.ID, "error", err)
		}
		o.Subscribe(h.recorder)
	}
	for _, obs := range h.observers {
		o.Subscribe(obs)
	}

	slog.InfoContext(r.Context(), "order created", "order_id", o.ID, "customer_id", req.CustomerID)
	writeJSON(w, http.StatusCreated, mapOrderToResponse(o.Snapshot()))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o.Snapshot()))
}

func (h *Handler) AddOrderItem(w http.ResponseWriter, r *http.Request) {
	o, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req AddOrderItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	item, err := h.menu.Get(req.ItemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	err = h.mutate(r, o.ID, func() error { return o.AddItem(item, req.Qty) })
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o.Snapshot()))
}

func (h *Handler) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	o, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	err = h.mutate(r, o.ID, func() error { return o.RemoveItem(chi.URLParam(r, "itemID")) })
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o.Snapshot()))
}

func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	o, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	status, ok := order.ParseStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown status: "+req.Status)
		return
	}

	err = h.mutate(r, o.ID, func() error { return o.SetStatus(status) })
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrderToResponse(o.Snapshot()))
}

// --- billing / checkout / payments ---

func (h *Handler) GenerateBill(w http.ResponseWriter, r *http.Request) {
	o, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	taxRate := h.taxRate
	if raw := r.URL.Query().Get("tax_rate"); raw != "" {
		// The rate is parsed but not range-checked; billing accepts any value.
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tax_rate", err.Error())
			return
		}
		taxRate = parsed
	}

	bill := billing.Generate(o, newBillID(), taxRate)
	statement := billing.Render(bill, o, h.cafeName)
	h.cacheStatement(r, bill.ID, statement)

	writeJSON(w, http.StatusCreated, mapBillToResponse(bill, o.ID, statement))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.registry.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.armRecorderCtx(r, o.ID)
	res, err := checkout.Run(r.Context(), o, h.payments, h.taxRate)
	if err != nil {
		writeError(w, http.StatusConflict, "checkout_failed", err.Error())
		return
	}

	statement := billing.Render(res.Bill, o, h.cafeName)
	h.cacheStatement(r, res.Bill.ID, statement)

	if h.onCheckedOut != nil {
		h.onCheckedOut(o.ID)
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{
		Bill:    mapBillToResponse(res.Bill, o.ID, statement),
		Payment: mapPaymentToResponse(res.Payment),
	})
}

func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	// Amount is deliberately unvalidated; the simulation accepts anything.
	p := h.payments.Process(req.Amount)
	writeJSON(w, http.StatusCreated, mapPaymentToResponse(p))
}

func (h *Handler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	p := h.payments.Refund(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, mapPaymentToResponse(p))
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled", "order log is not configured")
		return
	}
	entries, err := h.history.ListByOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history_error", err.Error())
		return
	}

	out := make([]HistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntryResponse{
			Event:      string(e.Event),
			Status:     e.Status,
			LineCount:  e.LineCount,
			Total:      e.Total,
			TraceID:    e.TraceID,
			RecordedAt: e.RecordedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// --- helpers ---

func newBillID() string { return uuid.NewString() }

// mutate arms the recorder with the request context and runs the mutation.
// A *NotifyError means the mutation was applied but a subscriber failed;
// per presentation policy that is logged and not surfaced to the client.
func (h *Handler) mutate(r *http.Request, orderID string, fn func() error) error {
	h.armRecorderCtx(r, orderID)
	err := fn()
	var ne *order.NotifyError
	if errors.As(err, &ne) {
		slog.WarnContext(r.Context(), "subscriber notification failed", "error", ne)
		return nil
	}
	return err
}

// armRecorderCtx hands the recorder a detached copy of the request context,
// keyed to the order being mutated: tracing metadata survives, cancellation
// does not, so a broadcast fired later (e.g. by the ready timer) can still
// write its log entry.
func (h *Handler) armRecorderCtx(r *http.Request, orderID string) {
	if h.recorder != nil {
		h.recorder.Arm(context.WithoutCancel(r.Context()), orderID)
	}
}

func (h *Handler) cacheStatement(r *http.Request, billID, statement string) {
	if h.cache == nil {
		return
	}
	key := h.cache.GenerateKey("bill", billID)
	if err := h.cache.Set(r.Context(), key, statement, billCacheTTL); err != nil {
		slog.WarnContext(r.Context(), "bill cache write failed", "bill_id", billID, "error", err)
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, catalog.ErrInvalidVariant):
		writeError(w, http.StatusBadRequest, "invalid_variant", err.Error())
	case errors.Is(err, order.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, order.ErrUnavailable):
		writeError(w, http.StatusConflict, "item_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func mapItemToResponse(it catalog.Item) MenuItemResponse {
	resp := MenuItemResponse{
		ID:          it.ID,
		Kind:        string(it.Kind),
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Available:   it.Available,
		DietaryInfo: it.DietaryInfo,
		Size:        it.Size,
	}
	if it.Kind == catalog.KindDrink {
		hot := it.Hot
		resp.Hot = &hot
	}
	return resp
}

func mapOrderToResponse(s order.Snapshot) OrderResponse {
	lines := make([]OrderLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = OrderLineResponse{
			ItemID:    l.Item.ID,
			Name:      l.Item.Name,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice(),
			Total:     l.Total(),
		}
	}
	return OrderResponse{
		ID:         s.OrderID,
		CustomerID: s.CustomerID,
		Status:     string(s.Status),
		Total:      s.Total,
		Lines:      lines,
		CreatedAt:  s.CreatedAt.Format(time.RFC3339),
	}
}

func mapBillToResponse(b billing.Bill, orderID, statement string) BillResponse {
	return BillResponse{
		ID:        b.ID,
		OrderID:   orderID,
		IssuedAt:  b.IssuedAt.Format(time.RFC3339),
		Subtotal:  b.Subtotal,
		Tax:       b.Tax,
		Total:     b.Total,
		Statement: statement,
	}
}

func mapPaymentToResponse(p payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:     p.ID,
		Amount: p.Amount,
		Status: string(p.Status),
		PaidAt: p.PaidAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
