package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CampaignHandler handles campaign related HTTP requests
type CampaignHandler struct {
	responder
	campaignService services.CampaignService
	insightService  services.InsightService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(campaignService services.CampaignService, insightService services.InsightService, production bool) *CampaignHandler {
	return &CampaignHandler{
		responder:       responder{production: production},
		campaignService: campaignService,
		insightService:  insightService,
	}
}

// List handles GET /campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	campaigns, err := h.campaignService.List(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

// Get handles GET /campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Campaign")
	if !ok {
		return
	}
	campaign, err := h.campaignService.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// Create handles POST /campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	campaign, err := h.campaignService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// Update handles PUT /campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Campaign")
	if !ok {
		return
	}
	var req models.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	campaign, err := h.campaignService.Update(c.Request.Context(), id, ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// Delete handles DELETE /campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Campaign")
	if !ok {
		return
	}
	if err := h.campaignService.Delete(c.Request.Context(), id, ownerID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign removed"})
}

// Send handles POST /campaigns/:id/send
func (h *CampaignHandler) Send(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Campaign")
	if !ok {
		return
	}
	result, err := h.campaignService.Send(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveryBody("Campaign sent successfully", result))
}

// Resume handles POST /campaigns/:id/resume
func (h *CampaignHandler) Resume(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Campaign")
	if !ok {
		return
	}
	result, err := h.campaignService.Resume(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveryBody("Campaign delivery resumed", result))
}

// Insights handles GET /campaigns/:id/insights
func (h *CampaignHandler) Insights(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Campaign")
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

func deliveryBody(message string, result *models.DeliveryResult) gin.H {
	return gin.H{
		"message":      message,
		"sent":         result.Sent,
		"failed":       result.Failed,
		"skipped":      result.Skipped,
		"unrecorded":   result.Unrecorded,
		"messageCount": result.Audience,
	}
}
