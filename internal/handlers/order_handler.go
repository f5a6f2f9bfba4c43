package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order related HTTP requests
type OrderHandler struct {
	responder
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService services.OrderService, production bool) *OrderHandler {
	return &OrderHandler{
		responder:    responder{production: production},
		orderService: orderService,
	}
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	orders, err := h.orderService.List(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Order")
	if !ok {
		return
	}
	order, err := h.orderService.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
