package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// batch size for scheduler sweeps
const sweepLimit = 50

var _ CampaignService = (*campaignService)(nil)

type campaignService struct {
	campaigns repositories.CampaignRepository
	segments  repositories.SegmentRepository
	audience  SegmentService
	pipeline  *DeliveryPipeline
	logger    *logrus.Logger
}

// NewCampaignService creates a new CampaignService implementation
func NewCampaignService(
	campaigns repositories.CampaignRepository,
	segments repositories.SegmentRepository,
	audience SegmentService,
	pipeline *DeliveryPipeline,
	logger *logrus.Logger,
) CampaignService {
	return &campaignService{
		campaigns: campaigns,
		segments:  segments,
		audience:  audience,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// Create stores a draft, or a scheduled campaign when a date is given
func (s *campaignService) Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("Campaign name is required")
	}
	if !req.Type.Valid() {
		return nil, apperrors.Validation("Invalid campaign type %q", req.Type)
	}
	if strings.TrimSpace(req.Message.Content) == "" {
		return nil, apperrors.Validation("Message content is required")
	}
	segmentID, err := s.ownedSegment(ctx, req.SegmentID, ownerID)
	if err != nil {
		return nil, err
	}

	campaign := &models.Campaign{
		UserID:      ownerID,
		Name:        name,
		Description: req.Description,
		Type:        req.Type,
		SegmentID:   segmentID,
		Content: models.CampaignContent{
			Subject:  req.Message.Subject,
			Body:     req.Message.Content,
			Template: req.Message.Template,
			MediaURL: req.Message.MediaURL,
		},
		Status: models.CampaignStatusDraft,
	}
	if req.ScheduledDate != nil {
		campaign.ScheduledDate = req.ScheduledDate
		campaign.Status = models.CampaignStatusScheduled
	}

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, mapRepoErr(err, "Campaign")
	}
	return campaign, nil
}

// Update merges req into the campaign. A campaign that is being sent cannot be
// changed, and a sent campaign keeps its status.
func (s *campaignService) Update(ctx context.Context, campaignID, ownerID primitive.ObjectID, req *models.UpdateCampaignRequest) (*models.Campaign, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Campaign")
	}
	if campaign.Status == models.CampaignStatusSending {
		return nil, apperrors.Conflict("Campaign is being sent and cannot be modified")
	}
	observed := campaign.Status

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("Campaign name is required")
		}
		campaign.Name = name
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, apperrors.Validation("Invalid campaign type %q", *req.Type)
		}
		campaign.Type = *req.Type
	}
	if req.SegmentID != nil {
		segmentID, err := s.ownedSegment(ctx, *req.SegmentID, ownerID)
		if err != nil {
			return nil, err
		}
		campaign.SegmentID = segmentID
	}
	if req.Message != nil {
		if strings.TrimSpace(req.Message.Content) == "" {
			return nil, apperrors.Validation("Message content is required")
		}
		campaign.Content = models.CampaignContent{
			Subject:  req.Message.Subject,
			Body:     req.Message.Content,
			Template: req.Message.Template,
			MediaURL: req.Message.MediaURL,
		}
	}
	if req.ScheduledDate != nil {
		campaign.ScheduledDate = req.ScheduledDate
		if campaign.Status == models.CampaignStatusDraft {
			campaign.Status = models.CampaignStatusScheduled
		}
	}
	if req.Status != nil && *req.Status != campaign.Status {
		if err := checkTransition(campaign, *req.Status); err != nil {
			return nil, err
		}
		campaign.Status = *req.Status
	}

	if err := s.campaigns.Update(ctx, campaign, observed); err != nil {
		if errors.Is(err, repositories.ErrStale) {
			return nil, apperrors.Conflict("Campaign changed while it was being updated")
		}
		return nil, mapRepoErr(err, "Campaign")
	}
	return campaign, nil
}

// checkTransition validates an explicit status change made through Update
func checkTransition(campaign *models.Campaign, to models.CampaignStatus) error {
	switch campaign.Status {
	case models.CampaignStatusSending, models.CampaignStatusSent:
		return apperrors.Conflict("Cannot change the status of a campaign that is %s", campaign.Status)
	}
	switch to {
	case models.CampaignStatusPaused, models.CampaignStatusCancelled, models.CampaignStatusDraft:
		return nil
	case models.CampaignStatusScheduled:
		if campaign.ScheduledDate == nil {
			return apperrors.Validation("A scheduled date is required to schedule a campaign")
		}
		return nil
	default:
		return apperrors.Validation("Invalid campaign status %q", to)
	}
}

// Delete removes a campaign unless it has been sent
func (s *campaignService) Delete(ctx context.Context, campaignID, ownerID primitive.ObjectID) error {
	campaign, err := s.campaigns.FindByID(ctx, campaignID, ownerID)
	if err != nil {
		return mapRepoErr(err, "Campaign")
	}
	switch campaign.Status {
	case models.CampaignStatusSent:
		return apperrors.Conflict("Cannot delete a campaign that has been sent")
	case models.CampaignStatusSending:
		return apperrors.Conflict("Cannot delete a campaign that is being sent")
	}
	err = s.campaigns.Delete(ctx, campaignID, ownerID)
	if errors.Is(err, repositories.ErrStale) {
		return apperrors.Conflict("Cannot delete a campaign that is being sent or has been sent")
	}
	return mapRepoErr(err, "Campaign")
}

func (s *campaignService) List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Campaign, error) {
	return s.campaigns.FindByOwner(ctx, ownerID, 0)
}

func (s *campaignService) Get(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.Campaign, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Campaign")
	}
	return campaign, nil
}

// Send resolves the campaign's audience and runs the delivery pipeline
func (s *campaignService) Send(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.DeliveryResult, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Campaign")
	}
	switch campaign.Status {
	case models.CampaignStatusSending:
		return nil, apperrors.Conflict("Campaign is already being sent")
	case models.CampaignStatusSent:
		return nil, apperrors.Conflict("Campaign has already been sent")
	case models.CampaignStatusPaused, models.CampaignStatusCancelled:
		return nil, apperrors.Conflict("Campaign cannot be sent while %s", campaign.Status)
	}

	segment, err := s.segments.FindByID(ctx, campaign.SegmentID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Segment")
	}
	audience, err := s.audience.ResolveAudience(ctx, segment)
	if err != nil {
		return nil, err
	}

	return s.pipeline.Execute(ctx, campaign, segment, audience)
}

// Resume completes a stalled send. A segment deleted in the meantime leaves
// only the recipients already attempted.
func (s *campaignService) Resume(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.DeliveryResult, error) {
	campaign, err := s.campaigns.FindByID(ctx, campaignID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Campaign")
	}
	if campaign.Status != models.CampaignStatusSending {
		return nil, apperrors.Conflict("Campaign is not being sent")
	}

	var audience []*models.Customer
	segment, err := s.segments.FindByID(ctx, campaign.SegmentID, ownerID)
	switch {
	case err == nil:
		audience, err = s.audience.ResolveAudience(ctx, segment)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, repositories.ErrNotFound):
		segment = nil
	default:
		return nil, err
	}

	return s.pipeline.Resume(ctx, campaign, segment, audience)
}

// SendDue sends scheduled campaigns whose date has passed and returns how many went out
func (s *campaignService) SendDue(ctx context.Context) (int, error) {
	due, err := s.campaigns.FindDue(ctx, time.Now(), sweepLimit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, c := range due {
		entry := s.logger.WithField("campaign", c.ID.Hex())
		result, err := s.Send(ctx, c.ID, c.UserID)
		if err != nil {
			entry.WithError(err).Warn("scheduled send skipped")
			continue
		}
		entry.WithField("sent", result.Sent).Info("scheduled campaign sent")
		sent++
	}
	return sent, nil
}

// ResumeStalled resumes sends abandoned by a previous worker
func (s *campaignService) ResumeStalled(ctx context.Context) (int, error) {
	stalled, err := s.campaigns.FindStalled(ctx, s.pipeline.StaleBefore(), sweepLimit)
	if err != nil {
		return 0, err
	}

	resumed := 0
	for _, c := range stalled {
		entry := s.logger.WithField("campaign", c.ID.Hex())
		if _, err := s.Resume(ctx, c.ID, c.UserID); err != nil {
			entry.WithError(err).Warn("stalled send not resumed")
			continue
		}
		entry.Info("stalled campaign resumed")
		resumed++
	}
	return resumed, nil
}

func (s *campaignService) ownedSegment(ctx context.Context, hexID string, ownerID primitive.ObjectID) (primitive.ObjectID, error) {
	segmentID, err := primitive.ObjectIDFromHex(strings.TrimSpace(hexID))
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("Invalid segment id")
	}
	if _, err := s.segments.FindByID(ctx, segmentID, ownerID); err != nil {
		return primitive.NilObjectID, mapRepoErr(err, "Segment")
	}
	return segmentID, nil
}
