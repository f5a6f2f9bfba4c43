package services

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/dedup"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const logListLimit = 100

var _ CommunicationService = (*communicationService)(nil)

type communicationService struct {
	logs      repositories.CommunicationLogRepository
	customers repositories.CustomerRepository
	senders   Senders
	receipts  dedup.Filter
	logger    *logrus.Logger
}

// NewCommunicationService creates a new CommunicationService implementation.
// receipts may be nil, in which case every receipt is applied.
func NewCommunicationService(
	logs repositories.CommunicationLogRepository,
	customers repositories.CustomerRepository,
	senders Senders,
	receipts dedup.Filter,
	logger *logrus.Logger,
) CommunicationService {
	return &communicationService{
		logs:      logs,
		customers: customers,
		senders:   senders,
		receipts:  receipts,
		logger:    logger,
	}
}

func (s *communicationService) ListLogs(ctx context.Context, ownerID primitive.ObjectID) ([]*models.CommunicationLog, error) {
	return s.logs.FindByOwner(ctx, ownerID, logListLimit)
}

// HandleDeliveryReceipt applies a provider callback to a log entry. A receipt
// seen before is acknowledged without touching the log.
func (s *communicationService) HandleDeliveryReceipt(ctx context.Context, req *models.DeliveryReceiptRequest) (*models.CommunicationLog, error) {
	if !req.Status.Valid() {
		return nil, apperrors.Validation("Status must be SENT or FAILED")
	}
	logID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.MessageID))
	if err != nil {
		return nil, apperrors.Validation("Invalid message id")
	}

	entry, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		return nil, mapRepoErr(err, "Communication log")
	}

	var marked string
	if s.receipts != nil {
		key := req.ReceiptID
		if key == "" {
			key = logID.Hex() + ":" + string(req.Status)
		}
		fresh, err := s.receipts.IsNew(ctx, key)
		if err != nil {
			s.logger.WithError(err).Warn("receipt dedup unavailable, applying receipt")
		} else if !fresh {
			s.logger.WithField("receipt", key).Debug("duplicate delivery receipt ignored")
			return entry, nil
		} else {
			marked = key
		}
	}

	reason := req.FailureReason
	if req.Status == models.LogStatusSent {
		reason = ""
	}
	if err := s.logs.UpdateStatus(ctx, logID, req.Status, reason); err != nil {
		if marked != "" {
			if ferr := s.receipts.Forget(ctx, marked); ferr != nil {
				s.logger.WithError(ferr).WithField("receipt", marked).Error("failed to release receipt after write error")
			}
		}
		return nil, mapRepoErr(err, "Communication log")
	}
	entry.Status = req.Status
	entry.FailureReason = reason
	entry.UpdatedAt = time.Now()
	return entry, nil
}

// SendDirect sends one personalized message to one owned customer and logs it
func (s *communicationService) SendDirect(ctx context.Context, ownerID primitive.ObjectID, req *models.DirectMessageRequest) (*models.CommunicationLog, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.Validation("Message is required")
	}
	customerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, apperrors.Validation("Invalid customer id")
	}
	var segmentID primitive.ObjectID
	if req.SegmentID != "" {
		if segmentID, err = primitive.ObjectIDFromHex(req.SegmentID); err != nil {
			return nil, apperrors.Validation("Invalid segment id")
		}
	}
	channel := req.Channel
	if channel == "" {
		channel = models.ChannelEmail
	}
	if !channel.Valid() {
		return nil, apperrors.Validation("Invalid channel %q", channel)
	}

	customer, err := s.customers.FindByID(ctx, customerID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Customer")
	}

	content := models.MessageContent{
		Subject: req.Subject,
		Body:    Personalize(req.Message, customer.Name),
	}
	externalID, sendErr := s.senders.Dispatch(ctx, channel, customer, content)

	entry := &models.CommunicationLog{
		UserID:     ownerID,
		CustomerID: customer.ID,
		SegmentID:  segmentID,
		Status:     models.LogStatusSent,
		Metadata: models.LogMetadata{
			Message:           content.Body,
			ExternalMessageID: externalID,
			Channel:           channel,
		},
		SentAt: time.Now(),
	}
	if sendErr != nil {
		entry.Status = models.LogStatusFailed
		entry.FailureReason = sendErr.Error()
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}

	if sendErr != nil {
		return entry, apperrors.ExternalService("Failed to send message", sendErr)
	}
	return entry, nil
}
