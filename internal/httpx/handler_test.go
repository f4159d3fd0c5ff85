package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/cafe-pos/internal/catalog"
	"github.com/jcmexdev/cafe-pos/internal/order"
	"github.com/jcmexdev/cafe-pos/internal/orderlog"
	"github.com/jcmexdev/cafe-pos/internal/orderlog/memory"
	"github.com/jcmexdev/cafe-pos/internal/payment"
)

type fixture struct {
	server     *httptest.Server
	checkedOut []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{}
	repo := memory.New()
	handler := NewHandler(
		catalog.NewCatalog("main", "Test Menu"),
		order.NewRegistry(),
		payment.NewService(),
		repo,
		orderlog.NewRecorder(repo),
		nil,
		nil, // no cache in tests
		0.15,
		"Test Café",
		func(orderID string) { f.checkedOut = append(f.checkedOut, orderID) },
	)
	f.server = httptest.NewServer(NewRouter(handler))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &buf)
	require.NoError(t, err)

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (f *fixture) seedMenu(t *testing.T) {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/menu/items", CreateMenuItemRequest{
		Kind: "drink", ID: "D1", Name: "Espresso", Price: 4.50, Size: "S",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/menu/items", CreateMenuItemRequest{
		Kind: "food", ID: "F1", Name: "Sandwich", Price: 6.50, DietaryInfo: "Gluten",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func (f *fixture) createOrder(t *testing.T) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/orders", CreateOrderRequest{CustomerID: "C1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[OrderResponse](t, resp).ID
}

func TestMenuEndpoints(t *testing.T) {
	f := newFixture(t)
	f.seedMenu(t)

	t.Run("unknown variant rejected", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/menu/items", CreateMenuItemRequest{
			Kind: "dessert", ID: "X1", Name: "Cake", Price: 4.00,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_variant", decode[ErrorResponse](t, resp).Error)
	})

	t.Run("list", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/menu?available=true", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		items := decode[[]MenuItemResponse](t, resp)
		require.Len(t, items, 2)
		assert.Equal(t, "D1", items[0].ID)
	})

	t.Run("availability toggle", func(t *testing.T) {
		resp := f.do(t, http.MethodPatch, "/menu/items/D1/availability", SetAvailabilityRequest{Available: false})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.False(t, decode[MenuItemResponse](t, resp).Available)

		resp = f.do(t, http.MethodGet, "/menu?available=true", nil)
		assert.Len(t, decode[[]MenuItemResponse](t, resp), 1)

		resp = f.do(t, http.MethodPatch, "/menu/items/D1/availability", SetAvailabilityRequest{Available: true})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("toggle missing item", func(t *testing.T) {
		resp := f.do(t, http.MethodPatch, "/menu/items/NOPE/availability", SetAvailabilityRequest{Available: true})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestOrderFlow(t *testing.T) {
	f := newFixture(t)
	f.seedMenu(t)
	orderID := f.createOrder(t)

	t.Run("get missing order", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/orders/nonexistent", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("add items merges lines", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/orders/"+orderID+"/items", AddOrderItemRequest{ItemID: "D1", Qty: 2})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodPost, "/orders/"+orderID+"/items", AddOrderItemRequest{ItemID: "D1", Qty: 1})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[OrderResponse](t, resp)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, 3, got.Lines[0].Qty)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/orders/"+orderID+"/items", AddOrderItemRequest{ItemID: "F1", Qty: 0})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_quantity", decode[ErrorResponse](t, resp).Error)
	})

	t.Run("unavailable item conflicts", func(t *testing.T) {
		resp := f.do(t, http.MethodPatch, "/menu/items/F1/availability", SetAvailabilityRequest{Available: false})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(t, http.MethodPost, "/orders/"+orderID+"/items", AddOrderItemRequest{ItemID: "F1", Qty: 1})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp = f.do(t, http.MethodPatch, "/menu/items/F1/availability", SetAvailabilityRequest{Available: true})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("remove missing line", func(t *testing.T) {
		resp := f.do(t, http.MethodDelete, "/orders/"+orderID+"/items/NOPE", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("status update", func(t *testing.T) {
		resp := f.do(t, http.MethodPatch, "/orders/"+orderID+"/status", SetStatusRequest{Status: "Preparing"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Preparing", decode[OrderResponse](t, resp).Status)

		resp = f.do(t, http.MethodPatch, "/orders/"+orderID+"/status", SetStatusRequest{Status: "Burnt"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("history records every change", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/orders/"+orderID+"/history", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		entries := decode[[]HistoryEntryResponse](t, resp)
		// created + 2 adds + status change (rejected mutations do not log)
		require.Len(t, entries, 4)
		assert.Equal(t, "CREATED", entries[0].Event)
		assert.Equal(t, "STATUS_CHANGED", entries[3].Event)
	})
}

func TestBillingAndCheckout(t *testing.T) {
	f := newFixture(t)
	f.seedMenu(t)
	orderID := f.createOrder(t)

	resp := f.do(t, http.MethodPost, "/orders/"+orderID+"/items", AddOrderItemRequest{ItemID: "D1", Qty: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = f.do(t, http.MethodPost, "/orders/"+orderID+"/items", AddOrderItemRequest{ItemID: "F1", Qty: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("bill with default tax rate", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/orders/"+orderID+"/bill", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		bill := decode[BillResponse](t, resp)
		assert.Equal(t, 15.50, bill.Subtotal)
		assert.Equal(t, 2.33, bill.Tax)
		assert.Equal(t, 17.83, bill.Total)
		assert.Contains(t, bill.Statement, "Test Café")
		assert.Contains(t, bill.Statement, "2 x Espresso @ 4.50 = 9.00")
	})

	t.Run("bill accepts any tax rate", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/orders/"+orderID+"/bill?tax_rate=2.0", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		bill := decode[BillResponse](t, resp)
		assert.Equal(t, 31.00, bill.Tax)
	})

	t.Run("checkout settles and schedules ready", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/orders/"+orderID+"/checkout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		out := decode[CheckoutResponse](t, resp)
		assert.Equal(t, 17.83, out.Bill.Total)
		assert.Equal(t, "Paid", out.Payment.Status)
		assert.Equal(t, 17.83, out.Payment.Amount)
		assert.Equal(t, []string{orderID}, f.checkedOut)

		resp = f.do(t, http.MethodGet, "/orders/"+orderID, nil)
		assert.Equal(t, "Preparing", decode[OrderResponse](t, resp).Status)
	})
}

func TestPaymentEndpoints(t *testing.T) {
	f := newFixture(t)

	t.Run("process accepts any amount", func(t *testing.T) {
		for _, amount := range []float64{10.50, 0.0, -1.0} {
			resp := f.do(t, http.MethodPost, "/payments", ProcessPaymentRequest{Amount: amount})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
			p := decode[PaymentResponse](t, resp)
			assert.Equal(t, "Paid", p.Status)
			assert.Equal(t, amount, p.Amount)
		}
	})

	t.Run("refund placeholder", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/payments/some-id/refund", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		p := decode[PaymentResponse](t, resp)
		assert.Equal(t, "some-id", p.ID)
		assert.Zero(t, p.Amount)
	})
}
