package publisher

import "time"

// OrderEvent is the lifecycle event published to the order-events topic.
type OrderEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"` // order.created, order.completed, order.cancelled
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
	Email       string    `json:"email"`
	OccurredAt  time.Time `json:"occurred_at"`
}

const (
	EventOrderCreated   = "order.created"
	EventOrderCompleted = "order.completed"
	EventOrderCancelled = "order.cancelled"
)
