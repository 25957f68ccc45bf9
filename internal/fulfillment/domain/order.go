package domain

import "time"

type Customer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type InventoryItem struct {
	SKU        string `json:"sku"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	OnHand     int    `json:"on_hand"`
}

// NewOrderLine is one requested (SKU, quantity) pair before pricing.
type NewOrderLine struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// OrderLine is a priced line as persisted: the unit price is the inventory
// price captured at reservation time, never recomputed afterwards.
type OrderLine struct {
	SKU            string `json:"sku"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type SalesOrder struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type SummaryLine struct {
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	Qty       int    `json:"qty"`
	LineCents int64  `json:"line_cents"`
}

// OrderSummary is the transient aggregate view of an order, computed inside
// the same transaction that wrote the order. It is never persisted.
type OrderSummary struct {
	OrderID      int64         `json:"order_id"`
	CustomerName string        `json:"customer_name"`
	TotalCents   int64         `json:"total_cents"`
	Lines        []SummaryLine `json:"lines"`
}

type OrderConfirmation struct {
	OrderID int64        `json:"order_id"`
	Summary OrderSummary `json:"summary"`
}
