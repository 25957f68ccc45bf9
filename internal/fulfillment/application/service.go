package application

import (
	"context"
	"log/slog"

	"github.com/aniruddhha/orderflow/internal/fulfillment/domain"
)

type Service struct {
	log  *slog.Logger
	repo OrderRepository
}

func NewService(log *slog.Logger, repo OrderRepository) *Service {
	return &Service{log: log, repo: repo}
}

// PlaceOrder creates an order for customerID with the requested lines, in the
// given line order. Quantities are not pre-validated here; the store's check
// constraint rejects non-positive quantities and the error comes back typed.
func (s *Service) PlaceOrder(ctx context.Context, customerID int64, lines []domain.NewOrderLine) (domain.OrderConfirmation, error) {
	conf, err := s.repo.CreateOrderWithItems(ctx, customerID, lines)
	if err != nil {
		return domain.OrderConfirmation{}, err
	}
	s.log.Info("order placed",
		"order_id", conf.OrderID,
		"customer_id", customerID,
		"lines", len(conf.Summary.Lines),
		"total_cents", conf.Summary.TotalCents,
	)
	return conf, nil
}

func (s *Service) OrderSummary(ctx context.Context, orderID int64) (domain.OrderSummary, error) {
	return s.repo.Summarize(ctx, orderID)
}

func (s *Service) Order(ctx context.Context, orderID int64) (domain.SalesOrder, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *Service) Customer(ctx context.Context, id int64) (domain.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) Inventory(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.repo.ListInventory(ctx)
}
