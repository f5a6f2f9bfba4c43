package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/insights"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/ArowuTest/customerconnect-backend/pkg/gemini"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const chatFallback = "I'm having trouble answering right now. In the meantime, try segmenting customers " +
	"by total spend and last activity, personalize messages with the customer's first name, and compare " +
	"delivery rates across channels before your next send."

var _ InsightService = (*insightService)(nil)

type insightService struct {
	campaigns repositories.CampaignRepository
	segments  repositories.SegmentRepository
	messages  repositories.MessageRepository
	customers repositories.CustomerRepository
	generator gemini.Generator
	logger    *logrus.Logger
}

// NewInsightService creates a new InsightService implementation
func NewInsightService(store *repositories.Store, generator gemini.Generator, logger *logrus.Logger) InsightService {
	return &insightService{
		campaigns: store.Campaigns,
		segments:  store.Segments,
		messages:  store.Messages,
		customers: store.Customers,
		generator: generator,
		logger:    logger,
	}
}

// Analyze asks the text generator for a structured review of one campaign
func (s *insightService) Analyze(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.CampaignInsights, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Campaign")
	}

	segment, err := s.segments.FindByID(ctx, campaign.SegmentID, ownerID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		segment = nil
	}

	recent, err := s.messages.FindRecentByCampaign(ctx, campaign.ID, insights.MaxSamples)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	samples := make([]models.InsightSample, 0, len(recent))
	for _, m := range recent {
		customer, err := s.customers.FindByID(ctx, m.CustomerID, ownerID)
		if err != nil {
			customer = nil
		}
		samples = append(samples, insights.Sample(customer, m, now))
	}

	raw, err := s.generator.Generate(ctx, insights.BuildPrompt(campaign, segment, samples))
	if err != nil {
		s.logger.WithError(err).WithField("campaign", campaign.ID.Hex()).Error("insight generation failed")
		return nil, apperrors.ExternalService("Failed to generate campaign insights", err)
	}

	result := insights.Parse(raw)
	return &result, nil
}

// Chat answers a free-form marketing question. Generator failures fall back
// to a canned answer instead of an error.
func (s *insightService) Chat(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", apperrors.Validation("Query is required")
	}

	prompt := fmt.Sprintf("You are a helpful CRM marketing assistant. Answer concisely.\n\nQuestion: %s", query)
	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		s.logger.WithError(err).Warn("chat generation failed, using fallback reply")
		return chatFallback, nil
	}
	return reply, nil
}
