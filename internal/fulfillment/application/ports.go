package application

import (
	"context"

	"github.com/aniruddhha/orderflow/internal/fulfillment/domain"
)

type OrderRepository interface {
	// CreateOrderWithItems runs the whole fulfillment transaction: order
	// header, per-line stock reservation, line inserts, in-transaction
	// summary, outbox event. All-or-nothing.
	CreateOrderWithItems(ctx context.Context, customerID int64, lines []domain.NewOrderLine) (domain.OrderConfirmation, error)

	// Summarize recomputes the summary of a committed order.
	Summarize(ctx context.Context, orderID int64) (domain.OrderSummary, error)

	GetOrder(ctx context.Context, orderID int64) (domain.SalesOrder, error)

	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
}
