package handlers

import (
	"net/http"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler serves dashboard figures
type AnalyticsHandler struct {
	responder
	analyticsService services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService services.AnalyticsService, production bool) *AnalyticsHandler {
	return &AnalyticsHandler{
		responder:        responder{production: production},
		analyticsService: analyticsService,
	}
}

// Dashboard handles GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	stats, err := h.analyticsService.Dashboard(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Health returns a liveness handler reporting the running environment
func Health(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": environment,
		})
	}
}
