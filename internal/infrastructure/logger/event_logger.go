package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// WebhookEventLog keeps one row per inbound provider delivery, redeliveries
// and no-ops included, so operators can trace lost correlations.
type WebhookEventLog struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	ProviderEventID string `gorm:"index"`
	SessionID       string `gorm:"index"`
	OrderID         uint   `gorm:"index"`
	Kind            string
	Processed       bool
	Error           string
	ReceivedAt      time.Time
}

// CheckoutFailedEvent records checkout attempts that never got a provider
// session, for support staff.
type CheckoutFailedEvent struct {
	ID            uint `gorm:"primaryKey"`
	OrderID       uint
	OrderNumber   string
	CustomerEmail string
	Total         float64
	Reason        string
	Timestamp     time.Time
}

type OrderEventLogger interface {
	LogWebhookEvent(ctx context.Context, event WebhookEventLog) error
	LogCheckoutFailed(ctx context.Context, event CheckoutFailedEvent) error
}

type PGOrderEventLogger struct {
	db *gorm.DB
}

func NewPGOrderEventLogger(db *gorm.DB) *PGOrderEventLogger {
	return &PGOrderEventLogger{db: db}
}

func (l *PGOrderEventLogger) LogWebhookEvent(ctx context.Context, event WebhookEventLog) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGOrderEventLogger) LogCheckoutFailed(ctx context.Context, event CheckoutFailedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
