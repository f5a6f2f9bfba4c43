package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const interruptedReason = "delivery interrupted"

// DeliveryPipeline sends a campaign to its audience one recipient at a time.
// Progress is persisted as one Message per (campaign, customer), so a run that
// dies halfway can be resumed without sending to anyone twice.
type DeliveryPipeline struct {
	campaigns    repositories.CampaignRepository
	messages     repositories.MessageRepository
	logs         repositories.CommunicationLogRepository
	senders      Senders
	stallTimeout time.Duration
	logger       *logrus.Logger
	now          func() time.Time
}

// NewDeliveryPipeline creates a pipeline. A campaign left in sending for longer
// than stallTimeout may be taken over by Resume.
func NewDeliveryPipeline(
	campaigns repositories.CampaignRepository,
	messages repositories.MessageRepository,
	logs repositories.CommunicationLogRepository,
	senders Senders,
	stallTimeout time.Duration,
	logger *logrus.Logger,
) *DeliveryPipeline {
	return &DeliveryPipeline{
		campaigns:    campaigns,
		messages:     messages,
		logs:         logs,
		senders:      senders,
		stallTimeout: stallTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Execute claims campaign for sending and delivers it to audience
func (p *DeliveryPipeline) Execute(ctx context.Context, campaign *models.Campaign, segment *models.Segment, audience []*models.Customer) (*models.DeliveryResult, error) {
	if len(audience) == 0 {
		return nil, apperrors.Validation("No customers found for this segment")
	}

	claimed, err := p.campaigns.ClaimForSending(ctx, campaign.ID, campaign.UserID, p.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, p.claimConflict(ctx, campaign)
	}
	if err != nil {
		return nil, err
	}

	return p.run(ctx, claimed, segment, audience)
}

// Resume takes over a campaign stuck in sending and delivers to the recipients
// that have no message yet
func (p *DeliveryPipeline) Resume(ctx context.Context, campaign *models.Campaign, segment *models.Segment, audience []*models.Customer) (*models.DeliveryResult, error) {
	claimed, err := p.campaigns.ReclaimStalled(ctx, campaign.ID, campaign.UserID, p.StaleBefore(), p.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Conflict("Campaign is not stalled")
	}
	if err != nil {
		return nil, err
	}

	return p.run(ctx, claimed, segment, audience)
}

func (p *DeliveryPipeline) claimConflict(ctx context.Context, campaign *models.Campaign) error {
	current, err := p.campaigns.FindByID(ctx, campaign.ID, campaign.UserID)
	if err != nil {
		return mapRepoErr(err, "Campaign")
	}
	switch current.Status {
	case models.CampaignStatusSent:
		return apperrors.Conflict("Campaign has already been sent")
	case models.CampaignStatusSending:
		return apperrors.Conflict("Campaign is already being sent")
	default:
		return apperrors.Conflict("Campaign cannot be sent while %s", current.Status)
	}
}

func (p *DeliveryPipeline) run(ctx context.Context, campaign *models.Campaign, segment *models.Segment, audience []*models.Customer) (*models.DeliveryResult, error) {
	// a client disconnect must not leave the campaign half sent
	ctx = context.WithoutCancel(ctx)
	entry := p.logger.WithFields(logrus.Fields{
		"campaign": campaign.ID.Hex(),
		"channel":  campaign.Type,
	})

	interrupted, err := p.messages.FailQueued(ctx, campaign.ID, interruptedReason, p.now())
	if err != nil {
		return nil, fmt.Errorf("failed to settle interrupted messages: %w", err)
	}
	if interrupted > 0 {
		entry.WithField("messages", interrupted).Warn("marked interrupted messages as failed")
	}

	prior, err := p.messages.FindByCampaign(ctx, campaign.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign messages: %w", err)
	}

	result := &models.DeliveryResult{Audience: len(audience)}
	attempted := make(map[primitive.ObjectID]bool, len(prior))
	for _, m := range prior {
		attempted[m.CustomerID] = true
		if m.Status == models.MessageStatusFailed {
			result.Failed++
		} else {
			result.Sent++
		}
	}

	segmentID := campaign.SegmentID
	if segment != nil {
		segmentID = segment.ID
	}

	for _, customer := range audience {
		if attempted[customer.ID] {
			result.Skipped++
			continue
		}
		sent, recorded := p.deliver(ctx, campaign, segmentID, customer, entry)
		if sent {
			result.Sent++
		} else {
			result.Failed++
		}
		if !recorded {
			result.Unrecorded++
		}
	}

	metrics := campaign.Metrics
	metrics.Sent = result.Sent
	metrics.Delivered = result.Sent
	metrics.Failed = result.Failed
	if err := p.campaigns.CompleteSend(ctx, campaign.ID, metrics, p.now()); err != nil {
		return nil, fmt.Errorf("failed to finalize campaign: %w", err)
	}

	entry.WithFields(logrus.Fields{
		"sent":       result.Sent,
		"failed":     result.Failed,
		"skipped":    result.Skipped,
		"unrecorded": result.Unrecorded,
	}).Info("campaign delivered")
	return result, nil
}

// deliver runs the per-recipient steps. sent reports whether the provider
// accepted the message; recorded is false when the Message or its log entry
// could not be written. Every failure, panics included, is contained here.
func (p *DeliveryPipeline) deliver(ctx context.Context, campaign *models.Campaign, segmentID primitive.ObjectID, customer *models.Customer, entry *logrus.Entry) (sent, recorded bool) {
	entry = entry.WithField("customer", customer.ID.Hex())
	defer func() {
		if r := recover(); r != nil {
			entry.Errorf("panic while delivering: %v", r)
			recorded = false
		}
	}()

	// only the body is personalized; the subject goes out as written
	content := models.MessageContent{
		Subject:  campaign.Content.Subject,
		Body:     Personalize(campaign.Content.Body, customer.Name),
		MediaURL: campaign.Content.MediaURL,
	}
	msg := &models.Message{
		UserID:     campaign.UserID,
		CampaignID: campaign.ID,
		CustomerID: customer.ID,
		Type:       campaign.Type,
		Content:    content,
		Status:     models.MessageStatusQueued,
	}
	if err := p.messages.Create(ctx, msg); err != nil {
		entry.WithError(err).Error("failed to create message")
		return false, false
	}

	externalID, sendErr := p.senders.Dispatch(ctx, campaign.Type, customer, content)
	sent = sendErr == nil
	recorded = true
	at := p.now()

	record := &models.CommunicationLog{
		UserID:     campaign.UserID,
		CustomerID: customer.ID,
		SegmentID:  segmentID,
		Status:     models.LogStatusSent,
		Metadata: models.LogMetadata{
			Message:           content.Body,
			CampaignID:        campaign.ID,
			MessageID:         msg.ID,
			ExternalMessageID: externalID,
			Channel:           campaign.Type,
		},
		SentAt: at,
	}
	if sendErr != nil {
		record.Status = models.LogStatusFailed
		record.FailureReason = sendErr.Error()
		entry.WithError(sendErr).Warn("delivery failed")
	}

	if err := p.logs.Create(ctx, record); err != nil {
		entry.WithError(err).WithField("accepted", sent).Error("failed to write communication log")
		recorded = false
	}

	if sent {
		msg.Status = models.MessageStatusDelivered
		msg.SentAt = &at
		msg.DeliveredAt = &at
	} else {
		msg.Status = models.MessageStatusFailed
		msg.FailedReason = sendErr.Error()
		msg.FailedAt = &at
	}
	if err := p.messages.Update(ctx, msg); err != nil {
		entry.WithError(err).WithField("accepted", sent).Error("failed to update message")
		recorded = false
	}
	return sent, recorded
}

// StaleBefore is the sendStartedAt cutoff below which a sending campaign counts as stalled
func (p *DeliveryPipeline) StaleBefore() time.Time {
	return p.now().Add(-p.stallTimeout)
}
