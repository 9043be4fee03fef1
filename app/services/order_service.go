package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/pkg/event"
	"github.com/sadekstore/storefront/pkg/logger"
)

// Order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// StatusChange is the payload of EventOrderStatusChanged.
type StatusChange struct {
	Order models.Order
	From  models.OrderStatus
	To    models.OrderStatus
}

// CreateOrderInput is what a customer submits. Total is optional; when it is
// missing or zero it is computed from the items.
type CreateOrderInput struct {
	Items        []models.OrderItem
	CustomerName string
	Phone        string
	Description  string
	Total        *float64
}

type OrderService struct {
	repo *repositories.StoreRepository
	bus  *event.Bus
}

func NewOrderService(repo *repositories.StoreRepository, bus *event.Bus) *OrderService {
	return &OrderService{repo: repo, bus: bus}
}

func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int64) (models.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// Create stores a new pending order. Analytics are not touched: revenue and
// order count only move when an order is completed.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (models.Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return models.Order{}, fail(ErrValidation, "customerName is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return models.Order{}, fail(ErrValidation, "phone is required")
	}
	for i, it := range in.Items {
		if it.Price < 0 || it.Quantity < 0 {
			return models.Order{}, fail(ErrValidation, fmt.Sprintf("items[%d]: price and quantity must not be negative", i))
		}
	}
	if in.Total != nil && *in.Total < 0 {
		return models.Order{}, fail(ErrValidation, "total must not be negative")
	}

	o := models.Order{
		Items:        in.Items,
		CustomerName: strings.TrimSpace(in.CustomerName),
		Phone:        strings.TrimSpace(in.Phone),
		Description:  in.Description,
		Status:       models.StatusPending,
	}
	if in.Total != nil && *in.Total != 0 {
		o.Total = *in.Total
	} else {
		o.Total = o.ItemsTotal()
	}

	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return models.Order{}, err
	}

	logger.WithCtx(ctx).Info("order created", "order_id", created.ID, "total", created.Total, "items", len(created.Items))
	s.bus.Fire(ctx, EventOrderCreated, created)
	return created, nil
}

// UpdateStatus moves an order to status and applies the analytics side
// effect in the same write.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (models.Order, error) {
	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return models.Order{}, fail(ErrValidation, fmt.Sprintf("status must be one of: %s, %s, %s",
			models.StatusPending, models.StatusCompleted, models.StatusCancelled))
	}

	var prev models.OrderStatus
	updated, err := s.repo.UpdateOrder(ctx, id, func(o *models.Order, a *models.Analytics) error {
		prev = o.Status
		ApplyTransition(a, *o, next)
		o.Status = next
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	logger.WithCtx(ctx).Info("order status updated", "order_id", id, "from", prev, "to", next)
	if prev != next {
		s.bus.Fire(ctx, EventOrderStatusChanged, StatusChange{Order: updated, From: prev, To: next})
	}
	return updated, nil
}

// RecomputeAnalytics rebuilds ordersCount and revenue from the completed
// orders, repairing any drift in the incremental counters. Visitors are left
// alone. It returns the counters before and after.
func (s *OrderService) RecomputeAnalytics(ctx context.Context) (before, after models.Analytics, err error) {
	err = s.repo.UpdateDocument(ctx, repositories.ChangeAnalytics, func(doc *models.Document) error {
		before = doc.Analytics

		var count int64
		var revenue float64
		for _, o := range doc.Orders {
			if o.Status == models.StatusCompleted {
				count++
				revenue += o.Total
			}
		}
		doc.Analytics.OrdersCount = count
		doc.Analytics.Revenue = max(0, revenue)

		after = doc.Analytics
		return nil
	})
	return before, after, err
}
