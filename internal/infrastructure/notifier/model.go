package notifier

import "time"

type OrderNotification struct {
	OrderID       uint      `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	CustomerEmail string    `json:"customer_email"`
	Address       string    `json:"address"`
	Comment       string    `json:"comment,omitempty"`
	Items         []Item    `json:"items"`
	CreatedAt     time.Time `json:"created_at"`
}

type Item struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}
