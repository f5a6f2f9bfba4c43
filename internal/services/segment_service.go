package services

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/ArowuTest/customerconnect-backend/internal/rules"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ SegmentService = (*segmentService)(nil)

type segmentService struct {
	segments  repositories.SegmentRepository
	customers repositories.CustomerRepository
	logger    *logrus.Logger
}

// NewSegmentService creates a new SegmentService implementation
func NewSegmentService(segments repositories.SegmentRepository, customers repositories.CustomerRepository, logger *logrus.Logger) SegmentService {
	return &segmentService{
		segments:  segments,
		customers: customers,
		logger:    logger,
	}
}

// Create stores a segment and caches its current audience size
func (s *segmentService) Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateSegmentRequest) (*models.Segment, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("Segment name is required")
	}
	if len(req.Rules) == 0 {
		return nil, apperrors.Validation("At least one rule is required")
	}

	combinator := req.Combinator
	if combinator == "" {
		combinator = models.CombinatorAnd
	}
	pred, err := s.compile(req.Rules, combinator)
	if err != nil {
		return nil, err
	}

	count, err := s.customers.CountMatching(ctx, ownerID, pred)
	if err != nil {
		return nil, err
	}

	segment := &models.Segment{
		UserID:         ownerID,
		Name:           name,
		Description:    req.Description,
		Rules:          req.Rules,
		Combinator:     combinator,
		IsActive:       true,
		EstimatedCount: count,
		LastUpdated:    time.Now(),
	}
	if err := s.segments.Create(ctx, segment); err != nil {
		return nil, mapRepoErr(err, "Segment")
	}
	return segment, nil
}

// Update merges req into the stored segment and recounts its audience
func (s *segmentService) Update(ctx context.Context, segmentID, ownerID primitive.ObjectID, req *models.UpdateSegmentRequest) (*models.Segment, error) {
	segment, err := s.segments.FindByID(ctx, segmentID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Segment")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("Segment name is required")
		}
		segment.Name = name
	}
	if req.Description != nil {
		segment.Description = *req.Description
	}
	if req.Rules != nil {
		if len(req.Rules) == 0 {
			return nil, apperrors.Validation("At least one rule is required")
		}
		segment.Rules = req.Rules
	}
	if req.Combinator != nil {
		segment.Combinator = *req.Combinator
		if segment.Combinator == "" {
			segment.Combinator = models.CombinatorAnd
		}
	}
	if req.IsActive != nil {
		segment.IsActive = *req.IsActive
	}

	pred, err := s.compile(segment.Rules, segment.Combinator)
	if err != nil {
		return nil, err
	}
	count, err := s.customers.CountMatching(ctx, ownerID, pred)
	if err != nil {
		return nil, err
	}
	segment.EstimatedCount = count
	segment.LastUpdated = time.Now()

	if err := s.segments.Update(ctx, segment); err != nil {
		return nil, mapRepoErr(err, "Segment")
	}
	return segment, nil
}

// Preview counts the owner's customers matching an unsaved rule set
func (s *segmentService) Preview(ctx context.Context, ownerID primitive.ObjectID, rs []models.Rule, combinator models.Combinator) (int64, error) {
	pred, err := s.compile(rs, combinator)
	if err != nil {
		return 0, err
	}
	return s.customers.CountMatching(ctx, ownerID, pred)
}

func (s *segmentService) ResolveCustomers(ctx context.Context, segmentID, ownerID primitive.ObjectID) ([]*models.Customer, error) {
	segment, err := s.segments.FindByID(ctx, segmentID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Segment")
	}
	return s.ResolveAudience(ctx, segment)
}

// ResolveAudience recompiles the stored rules; the cached count is never used
func (s *segmentService) ResolveAudience(ctx context.Context, segment *models.Segment) ([]*models.Customer, error) {
	pred, err := s.compile(segment.Rules, segment.Combinator)
	if err != nil {
		return nil, err
	}
	return s.customers.FindMatching(ctx, segment.UserID, pred)
}

// Delete removes a segment. Campaigns that reference it are left as they are.
func (s *segmentService) Delete(ctx context.Context, segmentID, ownerID primitive.ObjectID) error {
	return mapRepoErr(s.segments.Delete(ctx, segmentID, ownerID), "Segment")
}

func (s *segmentService) List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Segment, error) {
	return s.segments.FindByOwner(ctx, ownerID)
}

func (s *segmentService) Get(ctx context.Context, segmentID, ownerID primitive.ObjectID) (*models.Segment, error) {
	segment, err := s.segments.FindByID(ctx, segmentID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Segment")
	}
	return segment, nil
}

func (s *segmentService) compile(rs []models.Rule, combinator models.Combinator) (*rules.Predicate, error) {
	pred, err := rules.Compile(rs, combinator)
	if err != nil {
		return nil, err
	}
	for _, w := range pred.Warnings() {
		s.logger.WithField("combinator", combinator).Warn(w)
	}
	return pred, nil
}
