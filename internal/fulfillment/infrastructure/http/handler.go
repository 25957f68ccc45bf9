package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aniruddhha/orderflow/internal/fulfillment/domain"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, customerID int64, lines []domain.NewOrderLine) (domain.OrderConfirmation, error)
	OrderSummary(ctx context.Context, orderID int64) (domain.OrderSummary, error)
	Order(ctx context.Context, orderID int64) (domain.SalesOrder, error)
	Customer(ctx context.Context, id int64) (domain.Customer, error)
	Inventory(ctx context.Context) ([]domain.InventoryItem, error)
}

type Handler struct {
	log     *slog.Logger
	service OrderService
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service OrderService) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("fulfillment-http"),
	}
}

type placeOrderReq struct {
	CustomerID int64                 `json:"customer_id"`
	Items      []domain.NewOrderLine `json:"items"`
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", h.placeOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/orders/{id}/summary", h.orderSummary)
	r.Get("/customers/{id}", h.getCustomer)
	r.Get("/inventory", h.listInventory)
	return r
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	conf, err := h.service.PlaceOrder(ctx, req.CustomerID, req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Order(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) orderSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.service.OrderSummary(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Customer(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Inventory(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Store-level
// failures stay opaque to the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var insufficient domain.InsufficientStockError
	var unknownSKU domain.UnknownSKUError
	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "insufficient stock", "sku": insufficient.SKU})
	case errors.As(err, &unknownSKU):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "unknown sku", "sku": unknownSKU.SKU})
	case errors.Is(err, domain.ErrUnknownCustomer):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "unknown customer"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid quantity"})
	case errors.Is(err, domain.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	default:
		h.log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
