package domain

// OrderPlaced is queued on the outbox in the same transaction that commits
// the order, so the event and the order become visible together or not at all.
type OrderPlaced struct {
	EventID    string      `json:"event_id"`
	OrderID    int64       `json:"order_id"`
	CustomerID int64       `json:"customer_id"`
	TotalCents int64       `json:"total_cents"`
	Lines      []OrderLine `json:"lines"`
}
