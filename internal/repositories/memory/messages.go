package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.MessageRepository = (*MessageRepository)(nil)

// MessageRepository stores messages in memory
type MessageRepository struct {
	db *db
}

// Create inserts a message; (campaign, customer) is unique
func (r *MessageRepository) Create(_ context.Context, message *models.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, m := range r.db.messages {
		if m.CampaignID == message.CampaignID && m.CustomerID == message.CustomerID {
			return repositories.ErrDuplicate
		}
	}

	now := time.Now()
	message.ID = primitive.NewObjectID()
	message.CreatedAt = now
	message.UpdatedAt = now
	r.db.messages[message.ID] = *message
	return nil
}

// Update replaces a message
func (r *MessageRepository) Update(_ context.Context, message *models.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.messages[message.ID]; !ok {
		return repositories.ErrNotFound
	}
	message.UpdatedAt = time.Now()
	r.db.messages[message.ID] = *message
	return nil
}

// FindByCampaign returns every message of a campaign, oldest first
func (r *MessageRepository) FindByCampaign(_ context.Context, campaignID primitive.ObjectID) ([]*models.Message, error) {
	out := r.byCampaign(campaignID)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

// FindRecentByCampaign returns the newest messages of a campaign
func (r *MessageRepository) FindRecentByCampaign(_ context.Context, campaignID primitive.ObjectID, limit int) ([]*models.Message, error) {
	out := r.byCampaign(campaignID)
	sortNewest(out, func(m *models.Message) (time.Time, primitive.ObjectID) { return m.CreatedAt, m.ID })
	return limited(out, limit), nil
}

// FailQueued marks every queued message of the campaign as failed
func (r *MessageRepository) FailQueued(_ context.Context, campaignID primitive.ObjectID, reason string, at time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for id, m := range r.db.messages {
		if m.CampaignID == campaignID && m.Status == models.MessageStatusQueued {
			m.Status = models.MessageStatusFailed
			m.FailedReason = reason
			failedAt := at
			m.FailedAt = &failedAt
			m.UpdatedAt = at
			r.db.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (r *MessageRepository) byCampaign(campaignID primitive.ObjectID) []*models.Message {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Message{}
	for _, m := range r.db.messages {
		if m.CampaignID == campaignID {
			m := m
			out = append(out, &m)
		}
	}
	return out
}
