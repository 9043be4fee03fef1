package controllers

import (
	"net/http"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/response"
)

const orderNotFound = "Order not found"

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

type createOrderRequest struct {
	Items        []models.OrderItem `json:"items"`
	CustomerName string             `json:"customerName"`
	Phone        string             `json:"phone"`
	Description  string             `json:"description"`
	Total        *float64           `json:"total"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (oc *OrderController) Index(c *ctx.Context) {
	list, err := oc.orders.List(c.Context())
	if err != nil {
		fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	order, err := oc.orders.Get(c.Context(), id)
	if err != nil {
		fail(c, err, orderNotFound)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Store is the public checkout endpoint.
func (oc *OrderController) Store(c *ctx.Context) {
	var body createOrderRequest
	if !c.BindJSON(&body) {
		return
	}

	order, err := oc.orders.Create(c.Context(), services.CreateOrderInput{
		Items:        body.Items,
		CustomerName: body.CustomerName,
		Phone:        body.Phone,
		Description:  body.Description,
		Total:        body.Total,
	})
	if err != nil {
		fail(c, err, "")
		return
	}

	c.Success(response.Fields{
		"orderId": order.ID,
		"message": "Your order has been received. We will contact you soon by WhatsApp or phone.",
	})
}

func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}

	var body orderStatusRequest
	if !c.BindJSON(&body) {
		return
	}

	if _, err := oc.orders.UpdateStatus(c.Context(), id, body.Status); err != nil {
		fail(c, err, orderNotFound)
		return
	}
	c.Success(response.Fields{"message": "Order status updated successfully"})
}
