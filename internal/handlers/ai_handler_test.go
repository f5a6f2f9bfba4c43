package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type quotaExceeded struct{}

func (quotaExceeded) Analyze(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.CampaignInsights, error) {
	return nil, apperrors.ExternalService("Failed to generate campaign insights", errors.New("quota exceeded"))
}

func (quotaExceeded) Chat(context.Context, string) (string, error) {
	return "", apperrors.ExternalService("Failed to process AI chat", errors.New("quota exceeded"))
}

func TestAnalyzeReportsProviderFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	campaignID := primitive.NewObjectID()
	c.Request = httptest.NewRequest(http.MethodPost, "/api/ai/analyze/"+campaignID.Hex(), nil)
	c.Params = gin.Params{{Key: "campaignId", Value: campaignID.Hex()}}
	c.Set("userID", primitive.NewObjectID())

	NewAIHandler(quotaExceeded{}, true).Analyze(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Failed to generate campaign insights: quota exceeded"}`, w.Body.String())
}
