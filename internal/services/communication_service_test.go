package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/dedup"
	"github.com/ArowuTest/customerconnect-backend/internal/logger"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSendDirect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.addCustomer(t, "Ada Lovelace", "+1001", 10)

	entry, err := env.comms.SendDirect(ctx, env.owner, &models.DirectMessageRequest{
		CustomerID: c.ID.Hex(),
		Channel:    models.ChannelSMS,
		Message:    "Hello {{firstName}}",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LogStatusSent, entry.Status)
	assert.Equal(t, "Hello Ada", entry.Metadata.Message)
	assert.Equal(t, "ext-1", entry.Metadata.ExternalMessageID)

	logs, err := env.comms.ListLogs(ctx, env.owner)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestSendDirectFailureIsLogged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.addCustomer(t, "Bo", "", 10)

	entry, err := env.comms.SendDirect(ctx, env.owner, &models.DirectMessageRequest{
		CustomerID: c.ID.Hex(),
		Channel:    models.ChannelSMS,
		Message:    "Hello",
	})
	assert.True(t, errors.Is(err, apperrors.ErrExternalService))
	require.NotNil(t, entry)
	assert.Equal(t, models.LogStatusFailed, entry.Status)
	assert.Equal(t, "Customer has no phone number", entry.FailureReason)

	_, err = env.comms.SendDirect(ctx, primitive.NewObjectID(), &models.DirectMessageRequest{
		CustomerID: c.ID.Hex(),
		Message:    "Hello",
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeliveryReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.addCustomer(t, "Ada", "+1001", 10)
	entry, err := env.comms.SendDirect(ctx, env.owner, &models.DirectMessageRequest{
		CustomerID: c.ID.Hex(), Channel: models.ChannelSMS, Message: "Hi",
	})
	require.NoError(t, err)

	updated, err := env.comms.HandleDeliveryReceipt(ctx, &models.DeliveryReceiptRequest{
		MessageID:     entry.ID.Hex(),
		Status:        models.LogStatusFailed,
		FailureReason: "handset unreachable",
		ReceiptID:     "r-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.LogStatusFailed, updated.Status)

	// a replay of the same receipt is acknowledged but not applied
	_, err = env.comms.HandleDeliveryReceipt(ctx, &models.DeliveryReceiptRequest{
		MessageID: entry.ID.Hex(),
		Status:    models.LogStatusSent,
		ReceiptID: "r-1",
	})
	require.NoError(t, err)

	stored, err := env.store.Logs.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LogStatusFailed, stored.Status)
	assert.Equal(t, "handset unreachable", stored.FailureReason)
}

// flakyLogs fails the first status write and passes later ones through
type flakyLogs struct {
	repositories.CommunicationLogRepository
	failed bool
}

func (l *flakyLogs) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.LogStatus, reason string) error {
	if !l.failed {
		l.failed = true
		return errBoom
	}
	return l.CommunicationLogRepository.UpdateStatus(ctx, id, status, reason)
}

func TestDeliveryReceiptRetriedAfterWriteFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.addCustomer(t, "Ada", "+1001", 10)
	entry, err := env.comms.SendDirect(ctx, env.owner, &models.DirectMessageRequest{
		CustomerID: c.ID.Hex(), Channel: models.ChannelSMS, Message: "Hi",
	})
	require.NoError(t, err)

	senders := Senders{SMS: fakeSMS{env.sms}}
	comms := NewCommunicationService(&flakyLogs{CommunicationLogRepository: env.store.Logs}, env.store.Customers, senders, dedup.NewMemoryFilter(time.Hour), logger.Discard())
	receipt := &models.DeliveryReceiptRequest{
		MessageID:     entry.ID.Hex(),
		Status:        models.LogStatusFailed,
		FailureReason: "handset unreachable",
		ReceiptID:     "r-1",
	}

	_, err = comms.HandleDeliveryReceipt(ctx, receipt)
	require.Error(t, err)

	updated, err := comms.HandleDeliveryReceipt(ctx, receipt)
	require.NoError(t, err)
	assert.Equal(t, models.LogStatusFailed, updated.Status)

	stored, err := env.store.Logs.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LogStatusFailed, stored.Status)
	assert.Equal(t, "handset unreachable", stored.FailureReason)
}

func TestDeliveryReceiptValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.comms.HandleDeliveryReceipt(ctx, &models.DeliveryReceiptRequest{MessageID: primitive.NewObjectID().Hex(), Status: "READ"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.comms.HandleDeliveryReceipt(ctx, &models.DeliveryReceiptRequest{MessageID: "xyz", Status: models.LogStatusSent})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.comms.HandleDeliveryReceipt(ctx, &models.DeliveryReceiptRequest{MessageID: primitive.NewObjectID().Hex(), Status: models.LogStatusSent})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestPersonalize(t *testing.T) {
	assert.Equal(t, "Hi Ada, Ada!", Personalize("Hi {{firstName}}, {{firstName}}!", "Ada Lovelace"))
	assert.Equal(t, "Hi !", Personalize("Hi {{firstName}}!", "  "))
	assert.Equal(t, "No placeholder", Personalize("No placeholder", "Ada"))
}
