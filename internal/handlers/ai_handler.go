package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AIHandler exposes insight generation and the assistant chat
type AIHandler struct {
	responder
	insightService services.InsightService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(insightService services.InsightService, production bool) *AIHandler {
	return &AIHandler{
		responder:      responder{production: production},
		insightService: insightService,
	}
}

// Analyze handles POST /ai/analyze/:campaignId
func (h *AIHandler) Analyze(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "campaignId", "Campaign")
	if !ok {
		return
	}
	insights, err := h.insightService.Analyze(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// Chat handles POST /ai/chat
func (h *AIHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	reply, err := h.insightService.Chat(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}
