package models

import (
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
)

type OrderModel struct {
	ID               uint               `gorm:"primaryKey"`
	Number           string             `gorm:"uniqueIndex;not null"`
	CustomerName     string             `gorm:"not null"`
	CustomerPhone    string             `gorm:"not null"`
	CustomerEmail    string             `gorm:"not null;index:idx_customer_email"`
	CustomerAddress  string             `gorm:"not null"`
	CustomerComment  string
	OwnerID          *uint              `gorm:"index"`
	Total            float64            `gorm:"not null"`
	Status           domain.OrderStatus `gorm:"index:idx_status_created"`
	PaymentSessionID *string            `gorm:"uniqueIndex"`
	CreatedAt        time.Time          `gorm:"index:idx_status_created"`
	UpdatedAt        time.Time
	LineItems        []LineItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (OrderModel) TableName() string {
	return "orders"
}

type LineItemModel struct {
	ID          uint    `gorm:"primaryKey"`
	OrderID     uint    `gorm:"index;not null"`
	Position    int     `gorm:"not null"`
	Name        string  `gorm:"not null"`
	Description string
	UnitPrice   float64 `gorm:"not null"`
	Quantity    int     `gorm:"not null"`
}

func (LineItemModel) TableName() string {
	return "line_items"
}
