package domain

import "time"

type OrderStatus string

const (
	// StatusPendingLines marks a header whose lines have not all been
	// written yet. The reconciler cancels headers stuck here.
	StatusPendingLines OrderStatus = "pending_lines"
	StatusPending      OrderStatus = "pending"
	StatusShipped      OrderStatus = "shipped"
	StatusDelivered    OrderStatus = "delivered"
	StatusCanceled     OrderStatus = "canceled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPendingLines: {StatusPending: true, StatusCanceled: true},
	StatusPending:      {StatusShipped: true, StatusCanceled: true},
	StatusShipped:      {StatusDelivered: true},
	StatusDelivered:    {},
	StatusCanceled:     {},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether no further status change is allowed.
func (s OrderStatus) IsTerminal() bool {
	return len(validNext[s]) == 0
}

type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"-"`
	IdempotencyKey string      `json:"-"`
	Status         OrderStatus `json:"status"`
	TotalCents     int64       `json:"totalCents"`
	CreatedAt      time.Time   `json:"createdAt"`
	Lines          []OrderLine `json:"lines,omitempty"`
}

type OrderLine struct {
	ID          int64  `json:"id"`
	OrderID     string `json:"orderId"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Color       string `json:"color,omitempty"`
	PriceCents  int64  `json:"priceCents"`
	Quantity    int    `json:"quantity"`
}
