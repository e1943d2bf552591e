package mappers

import (
	"sort"

	"github.com/bloomlane/bloom-order-service/internal/domain"
	"github.com/bloomlane/bloom-order-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	items := make([]models.LineItemModel, len(model.LineItems))
	copy(items, model.LineItems)
	sort.Slice(items, func(i, j int) bool { return items[i].Position < items[j].Position })

	lineItems := make([]domain.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = domain.LineItem{
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}

	return &domain.Order{
		ID:     model.ID,
		Number: model.Number,
		Customer: domain.Customer{
			Name:    model.CustomerName,
			Phone:   model.CustomerPhone,
			Email:   model.CustomerEmail,
			Address: model.CustomerAddress,
			Comment: model.CustomerComment,
		},
		OwnerID:          model.OwnerID,
		LineItems:        lineItems,
		Total:            model.Total,
		Status:           model.Status,
		PaymentSessionID: model.PaymentSessionID,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	lineItems := make([]models.LineItemModel, len(order.LineItems))
	for i, item := range order.LineItems {
		lineItems[i] = models.LineItemModel{
			OrderID:     order.ID,
			Position:    i,
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}

	return &models.OrderModel{
		ID:               order.ID,
		Number:           order.Number,
		CustomerName:     order.Customer.Name,
		CustomerPhone:    order.Customer.Phone,
		CustomerEmail:    order.Customer.Email,
		CustomerAddress:  order.Customer.Address,
		CustomerComment:  order.Customer.Comment,
		OwnerID:          order.OwnerID,
		Total:            order.Total,
		Status:           order.Status,
		PaymentSessionID: order.PaymentSessionID,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
		LineItems:        lineItems,
	}
}
