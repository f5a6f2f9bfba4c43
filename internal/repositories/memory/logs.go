package memory

import (
	"context"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.CommunicationLogRepository = (*CommunicationLogRepository)(nil)

// CommunicationLogRepository stores log entries in memory
type CommunicationLogRepository struct {
	db *db
}

// Create inserts a log entry
func (r *CommunicationLogRepository) Create(_ context.Context, entry *models.CommunicationLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	entry.ID = primitive.NewObjectID()
	if entry.SentAt.IsZero() {
		entry.SentAt = now
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.db.logs[entry.ID] = *entry
	return nil
}

// FindByID finds a log entry
func (r *CommunicationLogRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.CommunicationLog, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	entry, ok := r.db.logs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &entry, nil
}

// FindByOwner lists the owner's log entries, most recently sent first
func (r *CommunicationLogRepository) FindByOwner(_ context.Context, ownerID primitive.ObjectID, limit int) ([]*models.CommunicationLog, error) {
	r.db.mu.RLock()
	out := []*models.CommunicationLog{}
	for _, entry := range r.db.logs {
		if entry.UserID == ownerID {
			entry := entry
			out = append(out, &entry)
		}
	}
	r.db.mu.RUnlock()

	sortNewest(out, func(l *models.CommunicationLog) (time.Time, primitive.ObjectID) { return l.SentAt, l.ID })
	return limited(out, limit), nil
}

// UpdateStatus applies a delivery receipt
func (r *CommunicationLogRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.LogStatus, failureReason string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	entry, ok := r.db.logs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	entry.Status = status
	entry.FailureReason = failureReason
	entry.UpdatedAt = time.Now()
	r.db.logs[id] = entry
	return nil
}
