package handlers

import (
	"net/http"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SegmentHandler handles segment related HTTP requests
type SegmentHandler struct {
	responder
	segmentService services.SegmentService
}

// NewSegmentHandler creates a new SegmentHandler
func NewSegmentHandler(segmentService services.SegmentService, production bool) *SegmentHandler {
	return &SegmentHandler{
		responder:      responder{production: production},
		segmentService: segmentService,
	}
}

// List handles GET /segments
func (h *SegmentHandler) List(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	segments, err := h.segmentService.List(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, segments)
}

// Get handles GET /segments/:id
func (h *SegmentHandler) Get(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Segment")
	if !ok {
		return
	}
	segment, err := h.segmentService.Get(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, segment)
}

// Create handles POST /segments
func (h *SegmentHandler) Create(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req models.CreateSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	segment, err := h.segmentService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, segment)
}

// Update handles PUT /segments/:id
func (h *SegmentHandler) Update(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Segment")
	if !ok {
		return
	}
	var req models.UpdateSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	segment, err := h.segmentService.Update(c.Request.Context(), id, ownerID, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, segment)
}

// Delete handles DELETE /segments/:id
func (h *SegmentHandler) Delete(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Segment")
	if !ok {
		return
	}
	if err := h.segmentService.Delete(c.Request.Context(), id, ownerID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Segment removed"})
}

// Preview handles POST /segments/preview
func (h *SegmentHandler) Preview(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	var req models.PreviewSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	count, err := h.segmentService.Preview(c.Request.Context(), ownerID, req.Rules, req.Combinator)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Customers handles GET /segments/:id/customers
func (h *SegmentHandler) Customers(c *gin.Context) {
	ownerID, ok := owner(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "Segment")
	if !ok {
		return
	}
	customers, err := h.segmentService.ResolveCustomers(c.Request.Context(), id, ownerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}
