package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer related HTTP requests
type CustomerHandler struct {
	responder
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService services.CustomerService, production bool) *CustomerHandler {
	return &CustomerHandler{
		responder:       responder{production: production},
		customerService: customerService,
	}
}

// List handles GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	customers, err := h.customerService.List(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Customer")
	if !ok {
		return
	}
	customer, err := h.customerService.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Customer")
	if !ok {
		return
	}
	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), id, ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Customer")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), id, ownerID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer removed"})
}
