package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.CampaignRepository = (*CampaignRepository)(nil)

// CampaignRepository implements the repositories.CampaignRepository interface
type CampaignRepository struct {
	collection *mongo.Collection
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{
		collection: db.Collection(campaignsCollection),
	}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	now := time.Now()
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, campaign)
	return translateErr(err)
}

// FindByID finds a campaign owned by ownerID
func (r *CampaignRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Campaign, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user": ownerID}, nil)
}

// FindByOwner lists the owner's campaigns newest first
func (r *CampaignRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]*models.Campaign, error) {
	return r.find(ctx, bson.M{"user": ownerID}, limitOpts(limit))
}

// Update sets the editable fields of a campaign whose status is still expected
func (r *CampaignRepository) Update(ctx context.Context, campaign *models.Campaign, expected models.CampaignStatus) error {
	campaign.UpdatedAt = time.Now()
	set := bson.M{
		"name":        campaign.Name,
		"description": campaign.Description,
		"type":        campaign.Type,
		"segment":     campaign.SegmentID,
		"content":     campaign.Content,
		"status":      campaign.Status,
		"updatedAt":   campaign.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if campaign.ScheduledDate != nil {
		set["scheduledDate"] = campaign.ScheduledDate
	} else {
		update["$unset"] = bson.M{"scheduledDate": ""}
	}

	filter := bson.M{"_id": campaign.ID, "user": campaign.UserID, "status": expected}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return r.missOrStale(ctx, campaign.ID, campaign.UserID)
	}
	return nil
}

// Delete deletes a campaign owned by ownerID unless it is sending or sent
func (r *CampaignRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	filter := bson.M{
		"_id":    id,
		"user":   ownerID,
		"status": bson.M{"$nin": models.LockedStatuses},
	}
	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return r.missOrStale(ctx, id, ownerID)
	}
	return nil
}

// missOrStale tells a conditional write that matched nothing because the
// campaign is gone apart from one that matched nothing because it moved on
func (r *CampaignRepository) missOrStale(ctx context.Context, id, ownerID primitive.ObjectID) error {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id, "user": ownerID})
	if err != nil {
		return err
	}
	if n == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrStale
}

// CountByOwner counts the owner's campaigns, optionally restricted to statuses
func (r *CampaignRepository) CountByOwner(ctx context.Context, ownerID primitive.ObjectID, statuses ...models.CampaignStatus) (int64, error) {
	filter := bson.M{"user": ownerID}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	return r.collection.CountDocuments(ctx, filter)
}

// ClaimForSending moves a draft or scheduled campaign to sending
func (r *CampaignRepository) ClaimForSending(ctx context.Context, id, ownerID primitive.ObjectID, at time.Time) (*models.Campaign, error) {
	filter := bson.M{
		"_id":    id,
		"user":   ownerID,
		"status": bson.M{"$in": models.SendableStatuses},
	}
	return r.claim(ctx, filter, at)
}

// ReclaimStalled takes over a sending campaign abandoned before staleBefore
func (r *CampaignRepository) ReclaimStalled(ctx context.Context, id, ownerID primitive.ObjectID, staleBefore, at time.Time) (*models.Campaign, error) {
	filter := bson.M{
		"_id":    id,
		"user":   ownerID,
		"status": models.CampaignStatusSending,
		"$or": bson.A{
			bson.M{"sendStartedAt": bson.M{"$lt": staleBefore}},
			bson.M{"sendStartedAt": bson.M{"$exists": false}},
		},
	}
	return r.claim(ctx, filter, at)
}

// CompleteSend stores final metrics and marks the campaign sent
func (r *CampaignRepository) CompleteSend(ctx context.Context, id primitive.ObjectID, metrics models.CampaignMetrics, at time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":            models.CampaignStatusSent,
		"metrics.sent":      metrics.Sent,
		"metrics.delivered": metrics.Delivered,
		"metrics.failed":    metrics.Failed,
		"sentAt":            at,
		"updatedAt":         at,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindDue returns scheduled campaigns whose scheduledDate has passed
func (r *CampaignRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*models.Campaign, error) {
	filter := bson.M{
		"status":        models.CampaignStatusScheduled,
		"scheduledDate": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, filter, opts)
}

// FindStalled returns sending campaigns started before staleBefore
func (r *CampaignRepository) FindStalled(ctx context.Context, staleBefore time.Time, limit int) ([]*models.Campaign, error) {
	filter := bson.M{
		"status":        models.CampaignStatusSending,
		"sendStartedAt": bson.M{"$lt": staleBefore},
	}
	opts := options.Find().SetSort(bson.D{{Key: "sendStartedAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, filter, opts)
}

func (r *CampaignRepository) claim(ctx context.Context, filter bson.M, at time.Time) (*models.Campaign, error) {
	update := bson.M{"$set": bson.M{
		"status":        models.CampaignStatusSending,
		"sendStartedAt": at,
		"updatedAt":     at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return r.findOneAndUpdate(ctx, filter, update, opts)
}

func (r *CampaignRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M, opts *options.FindOneAndUpdateOptions) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&campaign); err != nil {
		return nil, translateErr(err)
	}
	return &campaign, nil
}

func (r *CampaignRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*models.Campaign, error) {
	var campaign models.Campaign
	if opts == nil {
		opts = options.FindOne()
	}
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&campaign); err != nil {
		return nil, translateErr(err)
	}
	return &campaign, nil
}

func (r *CampaignRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Campaign, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var campaigns []*models.Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, err
	}

	// Ensure an empty slice is returned instead of nil if no campaigns found
	if campaigns == nil {
		campaigns = []*models.Campaign{}
	}
	return campaigns, nil
}
