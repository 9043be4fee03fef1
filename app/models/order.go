package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every accepted status.
var OrderStatuses = []OrderStatus{StatusPending, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderItem is a denormalised snapshot of a product at order time.
type OrderItem struct {
	ProductID *int64  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Order struct {
	ID           int64       `json:"id"`
	Items        []OrderItem `json:"items"`
	CustomerName string      `json:"customerName"`
	Phone        string      `json:"phone"`
	Description  string      `json:"description"`
	Status       OrderStatus `json:"status"`
	Total        float64     `json:"total"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ItemsTotal is Σ price × quantity over the order's items.
func (o Order) ItemsTotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Analytics holds derived counters. They are never negative.
type Analytics struct {
	Visitors    int64   `json:"visitors"`
	OrdersCount int64   `json:"ordersCount"`
	Revenue     float64 `json:"revenue"`
}

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	Orders   int     `json:"orders"` // completed orders
	Products int     `json:"products"`
	Visitors int64   `json:"visitors"`
	Revenue  float64 `json:"revenue"`
}
