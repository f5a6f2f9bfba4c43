package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository stores campaigns in memory
type CampaignRepository struct {
	db *db
}

// Create inserts a new campaign
func (r *CampaignRepository) Create(_ context.Context, campaign *models.Campaign) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	r.db.campaigns[campaign.ID] = *campaign
	return nil
}

// FindByID finds a campaign owned by ownerID
func (r *CampaignRepository) FindByID(_ context.Context, id, ownerID primitive.ObjectID) (*models.Campaign, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.campaigns[id]
	if !ok || c.UserID != ownerID {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

// FindByOwner lists the owner's campaigns newest first
func (r *CampaignRepository) FindByOwner(_ context.Context, ownerID primitive.ObjectID, limit int) ([]*models.Campaign, error) {
	out := r.filter(func(c *models.Campaign) bool { return c.UserID == ownerID })
	sortNewest(out, func(c *models.Campaign) (time.Time, primitive.ObjectID) { return c.CreatedAt, c.ID })
	return limited(out, limit), nil
}

// Update writes the editable fields of a campaign whose status is still expected
func (r *CampaignRepository) Update(_ context.Context, campaign *models.Campaign, expected models.CampaignStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.campaigns[campaign.ID]
	if !ok || existing.UserID != campaign.UserID {
		return repositories.ErrNotFound
	}
	if existing.Status != expected {
		return repositories.ErrStale
	}
	campaign.UpdatedAt = time.Now()
	existing.Name = campaign.Name
	existing.Description = campaign.Description
	existing.Type = campaign.Type
	existing.SegmentID = campaign.SegmentID
	existing.Content = campaign.Content
	existing.ScheduledDate = campaign.ScheduledDate
	existing.Status = campaign.Status
	existing.UpdatedAt = campaign.UpdatedAt
	r.db.campaigns[campaign.ID] = existing
	return nil
}

// Delete deletes a campaign owned by ownerID unless it is sending or sent
func (r *CampaignRepository) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.campaigns[id]
	if !ok || c.UserID != ownerID {
		return repositories.ErrNotFound
	}
	if hasStatus(c.Status, models.LockedStatuses) {
		return repositories.ErrStale
	}
	delete(r.db.campaigns, id)
	return nil
}

// CountByOwner counts the owner's campaigns, optionally restricted to statuses
func (r *CampaignRepository) CountByOwner(_ context.Context, ownerID primitive.ObjectID, statuses ...models.CampaignStatus) (int64, error) {
	out := r.filter(func(c *models.Campaign) bool {
		return c.UserID == ownerID && (len(statuses) == 0 || hasStatus(c.Status, statuses))
	})
	return int64(len(out)), nil
}

// ClaimForSending moves a draft or scheduled campaign to sending
func (r *CampaignRepository) ClaimForSending(_ context.Context, id, ownerID primitive.ObjectID, at time.Time) (*models.Campaign, error) {
	return r.claim(id, ownerID, at, func(c models.Campaign) bool {
		return hasStatus(c.Status, models.SendableStatuses)
	})
}

// ReclaimStalled takes over a sending campaign abandoned before staleBefore
func (r *CampaignRepository) ReclaimStalled(_ context.Context, id, ownerID primitive.ObjectID, staleBefore, at time.Time) (*models.Campaign, error) {
	return r.claim(id, ownerID, at, func(c models.Campaign) bool {
		return c.Status == models.CampaignStatusSending &&
			(c.SendStartedAt == nil || c.SendStartedAt.Before(staleBefore))
	})
}

// CompleteSend stores final metrics and marks the campaign sent
func (r *CampaignRepository) CompleteSend(_ context.Context, id primitive.ObjectID, metrics models.CampaignMetrics, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.campaigns[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Status = models.CampaignStatusSent
	c.Metrics.Sent = metrics.Sent
	c.Metrics.Delivered = metrics.Delivered
	c.Metrics.Failed = metrics.Failed
	c.SentAt = &at
	c.UpdatedAt = at
	r.db.campaigns[id] = c
	return nil
}

// FindDue returns scheduled campaigns whose scheduledDate has passed
func (r *CampaignRepository) FindDue(_ context.Context, now time.Time, limit int) ([]*models.Campaign, error) {
	out := r.filter(func(c *models.Campaign) bool {
		return c.Status == models.CampaignStatusScheduled && c.ScheduledDate != nil && !c.ScheduledDate.After(now)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(*out[j].ScheduledDate) })
	return limited(out, limit), nil
}

// FindStalled returns sending campaigns started before staleBefore
func (r *CampaignRepository) FindStalled(_ context.Context, staleBefore time.Time, limit int) ([]*models.Campaign, error) {
	out := r.filter(func(c *models.Campaign) bool {
		return c.Status == models.CampaignStatusSending && c.SendStartedAt != nil && c.SendStartedAt.Before(staleBefore)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SendStartedAt.Before(*out[j].SendStartedAt) })
	return limited(out, limit), nil
}

func (r *CampaignRepository) claim(id, ownerID primitive.ObjectID, at time.Time, guard func(models.Campaign) bool) (*models.Campaign, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.campaigns[id]
	if !ok || c.UserID != ownerID || !guard(c) {
		return nil, repositories.ErrNotFound
	}
	c.Status = models.CampaignStatusSending
	started := at
	c.SendStartedAt = &started
	c.UpdatedAt = at
	r.db.campaigns[id] = c
	return &c, nil
}

func (r *CampaignRepository) filter(keep func(*models.Campaign) bool) []*models.Campaign {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Campaign{}
	for _, c := range r.db.campaigns {
		c := c
		if keep(&c) {
			out = append(out, &c)
		}
	}
	return out
}

func hasStatus(status models.CampaignStatus, statuses []models.CampaignStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
