package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/postgres/mappers"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	order.ID = orderModel.ID
	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID uint) (*domain.Order, error) {
	var orderModel models.OrderModel
	err := r.DB.WithContext(ctx).
		Preload("LineItems").
		First(&orderModel, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) GetOrderBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	err := r.DB.WithContext(ctx).
		Preload("LineItems").
		First(&orderModel, "payment_session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) SetPaymentSession(ctx context.Context, orderID uint, sessionID string) error {
	result := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND payment_session_id IS NULL", orderID).
		Update("payment_session_id", sessionID)
	if result.Error != nil {
		return fmt.Errorf("failed to set payment session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// TransitionStatus performs the guarded status update. The WHERE clause on
// the current status is what makes concurrent webhook/poll reconciliation
// yield at most one effective transition.
func (r *DefaultOrderRepository) TransitionStatus(ctx context.Context, orderID uint, fromStatus, newStatus domain.OrderStatus) (bool, error) {
	result := r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, fromStatus).
		Update("status", newStatus)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition order status: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *DefaultOrderRepository) FindStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Order, error) {
	var orderModels []models.OrderModel
	err := r.DB.WithContext(ctx).
		Preload("LineItems").
		Where("status = ?", domain.StatusPending).
		Where("created_at < ?", cutoff).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, len(orderModels))
	for i, orderModel := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModel)
	}

	return orders, nil
}

func (r *DefaultOrderRepository) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("status = ?", domain.StatusPending).
		Where("payment_session_id IS NULL").
		Where("created_at < ?", cutoff).
		Delete(&models.OrderModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete stale pending orders: %w", result.Error)
	}

	return result.RowsAffected, nil
}
