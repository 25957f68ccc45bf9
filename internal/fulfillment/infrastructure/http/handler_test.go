package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aniruddhha/orderflow/internal/fulfillment/domain"
)

type fakeService struct {
	conf    domain.OrderConfirmation
	summary domain.OrderSummary
	err     error
}

func (f *fakeService) PlaceOrder(ctx context.Context, customerID int64, lines []domain.NewOrderLine) (domain.OrderConfirmation, error) {
	return f.conf, f.err
}

func (f *fakeService) OrderSummary(ctx context.Context, orderID int64) (domain.OrderSummary, error) {
	return f.summary, f.err
}

func (f *fakeService) Order(ctx context.Context, orderID int64) (domain.SalesOrder, error) {
	return domain.SalesOrder{ID: orderID, CustomerID: 1}, f.err
}

func (f *fakeService) Customer(ctx context.Context, id int64) (domain.Customer, error) {
	return domain.Customer{ID: id, Name: "Samrudhi"}, f.err
}

func (f *fakeService) Inventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return nil, f.err
}

func newTestHandler(svc OrderService) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(log, svc).Routes()
}

func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrderCreated(t *testing.T) {
	svc := &fakeService{conf: domain.OrderConfirmation{
		OrderID: 42,
		Summary: domain.OrderSummary{OrderID: 42, CustomerName: "Samrudhi", TotalCents: 798},
	}}
	rec := doRequest(newTestHandler(svc), http.MethodPost, "/orders",
		`{"customer_id":1,"items":[{"sku":"SKU-USB-C","qty":2}]}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var conf domain.OrderConfirmation
	if err := json.NewDecoder(rec.Body).Decode(&conf); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if conf.OrderID != 42 || conf.Summary.TotalCents != 798 {
		t.Fatalf("unexpected confirmation: %+v", conf)
	}
}

func TestPlaceOrderInvalidBody(t *testing.T) {
	rec := doRequest(newTestHandler(&fakeService{}), http.MethodPost, "/orders", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPlaceOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantSKU    string
	}{
		{"insufficient stock", domain.InsufficientStockError{SKU: "SKU-B"}, http.StatusConflict, "SKU-B"},
		{"unknown sku", domain.UnknownSKUError{SKU: "SKU-X"}, http.StatusConflict, "SKU-X"},
		{"unknown customer", domain.ErrUnknownCustomer, http.StatusUnprocessableEntity, ""},
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest, ""},
		{"store failure", io.ErrUnexpectedEOF, http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(newTestHandler(&fakeService{err: tc.err}), http.MethodPost, "/orders",
				`{"customer_id":1,"items":[{"sku":"SKU-B","qty":1}]}`)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantSKU != "" {
				var body map[string]string
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("bad body: %v", err)
				}
				if body["sku"] != tc.wantSKU {
					t.Fatalf("expected sku %s in body, got %v", tc.wantSKU, body)
				}
			}
		})
	}
}

func TestOrderSummaryNotFound(t *testing.T) {
	rec := doRequest(newTestHandler(&fakeService{err: domain.ErrOrderNotFound}),
		http.MethodGet, "/orders/99/summary", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderSummaryBadID(t *testing.T) {
	rec := doRequest(newTestHandler(&fakeService{}), http.MethodGet, "/orders/abc/summary", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOrderSummaryOK(t *testing.T) {
	svc := &fakeService{summary: domain.OrderSummary{
		OrderID:      7,
		CustomerName: "Samrudhi",
		TotalCents:   200,
		Lines:        []domain.SummaryLine{{SKU: "SKU-A", Title: "A", Qty: 2, LineCents: 200}},
	}}
	rec := doRequest(newTestHandler(svc), http.MethodGet, "/orders/7/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var s domain.OrderSummary
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if s.TotalCents != 200 || len(s.Lines) != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
