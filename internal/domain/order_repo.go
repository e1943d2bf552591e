package domain

import (
	"context"
	"time"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID uint) (*Order, error)
	GetOrderBySessionID(ctx context.Context, sessionID string) (*Order, error)

	// SetPaymentSession stores the provider session reference on a freshly
	// created order. The reference is unique across orders once set.
	SetPaymentSession(ctx context.Context, orderID uint, sessionID string) error

	// TransitionStatus is a compare-and-set: the order moves to newStatus
	// only if its current status is fromStatus. Returns false when the
	// guard did not match (somebody else already transitioned the order).
	TransitionStatus(ctx context.Context, orderID uint, fromStatus, newStatus OrderStatus) (bool, error)

	// FindStalePending returns pending orders created before the cutoff.
	FindStalePending(ctx context.Context, cutoff time.Time) ([]*Order, error)

	// DeleteStalePending removes pending orders without a session reference
	// created before the cutoff. Administrative maintenance only.
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
