package domain

import (
	"math"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Customer is a free-text contact snapshot captured at submission time.
// It is never re-derived from an account profile after creation.
type Customer struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Comment string
}

type LineItem struct {
	Name        string
	Description string
	UnitPrice   float64
	Quantity    int
}

// UnitAmountMinor converts the unit price to integer minor currency units
// (cents). Rounding must stay math.Round: the provider echoes these amounts
// back in webhooks and an off-by-one here breaks reconciliation.
func (li LineItem) UnitAmountMinor() int64 {
	return int64(math.Round(li.UnitPrice * 100))
}

type Order struct {
	ID               uint
	Number           string
	Customer         Customer
	OwnerID          *uint
	LineItems        []LineItem
	Total            float64
	Status           OrderStatus
	PaymentSessionID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LineItemsTotal is the server-side sum of the snapshot. The submitted total
// is the one trusted and stored; this exists so callers can log the deviation.
func (o *Order) LineItemsTotal() float64 {
	var sum float64
	for _, li := range o.LineItems {
		sum += li.UnitPrice * float64(li.Quantity)
	}
	return sum
}
