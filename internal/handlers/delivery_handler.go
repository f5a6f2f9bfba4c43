package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DeliveryHandler handles communication logs, direct sends and provider receipts
type DeliveryHandler struct {
	responder
	communicationService services.CommunicationService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(communicationService services.CommunicationService, production bool) *DeliveryHandler {
	return &DeliveryHandler{
		responder:            responder{production: production},
		communicationService: communicationService,
	}
}

// Logs handles GET /delivery/logs
func (h *DeliveryHandler) Logs(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	logs, err := h.communicationService.ListLogs(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Send handles POST /delivery/send
func (h *DeliveryHandler) Send(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req models.DirectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	entry, err := h.communicationService.SendDirect(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Receipt handles POST /delivery/receipt
func (h *DeliveryHandler) Receipt(c *gin.Context) {
	var req models.DeliveryReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	entry, err := h.communicationService.HandleDeliveryReceipt(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Receipt processed", "status": entry.Status})
}
