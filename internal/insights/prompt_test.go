package insights

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptIncludesCampaignAndRules(t *testing.T) {
	campaign := &models.Campaign{
		Name:    "Spring sale",
		Type:    models.ChannelEmail,
		Status:  models.CampaignStatusSent,
		Content: models.CampaignContent{Subject: "Hi", Body: "Hello {{firstName}}"},
		Metrics: models.CampaignMetrics{Sent: 3, Delivered: 3, Failed: 2},
	}
	segment := &models.Segment{
		Name:           "Big spenders",
		Rules:          []models.Rule{{Field: "totalSpent", Operator: ">", Value: "1000"}},
		Combinator:     models.CombinatorAnd,
		EstimatedCount: 5,
	}

	prompt := BuildPrompt(campaign, segment, nil)

	assert.Contains(t, prompt, "Campaign: Spring sale")
	assert.Contains(t, prompt, "Sent: 3, Delivered: 3, Failed: 2")
	assert.Contains(t, prompt, `"field":"totalSpent"`)
	assert.Contains(t, prompt, "Big spenders (5 customers")
	assert.NotContains(t, prompt, "Sample messages")
}

func TestBuildPromptCapsSamples(t *testing.T) {
	campaign := &models.Campaign{Name: "c", Type: models.ChannelSMS}
	var samples []models.InsightSample
	for i := 0; i < 15; i++ {
		samples = append(samples, models.InsightSample{Name: fmt.Sprintf("cust-%02d", i), DaysSinceActive: -1})
	}

	prompt := BuildPrompt(campaign, nil, samples)

	assert.Contains(t, prompt, "Segment: unavailable")
	assert.Contains(t, prompt, "cust-09")
	assert.NotContains(t, prompt, "cust-10")
	assert.Equal(t, MaxSamples, strings.Count(prompt, "| status"))
}

func TestSampleDaysSinceActive(t *testing.T) {
	now := time.Date(2024, 5, 11, 12, 0, 0, 0, time.UTC)
	customer := &models.Customer{Name: "Ada", TotalSpent: 20, Visits: 2, LastActiveAt: now.Add(-72 * time.Hour)}
	msg := &models.Message{Status: models.MessageStatusDelivered, Content: models.MessageContent{Body: "Hi Ada"}}

	s := Sample(customer, msg, now)
	assert.Equal(t, 3, s.DaysSinceActive)
	assert.Equal(t, "Ada", s.Name)
	assert.Equal(t, "Hi Ada", s.Message)

	s = Sample(&models.Customer{Name: "Bo"}, msg, now)
	assert.Equal(t, -1, s.DaysSinceActive)

	s = Sample(nil, msg, now)
	assert.Empty(t, s.Name)
}
