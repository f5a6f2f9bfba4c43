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

var _ repositories.MessageRepository = (*MessageRepository)(nil)

// MessageRepository handles MongoDB operations for Message
type MessageRepository struct {
	collection *mongo.Collection
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		collection: db.Collection(messagesCollection),
	}
}

// Create inserts a message; a second message for the same (campaign, customer)
// fails with repositories.ErrDuplicate
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	now := time.Now()
	message.ID = primitive.NewObjectID()
	message.CreatedAt = now
	message.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, message)
	return translateErr(err)
}

// Update replaces a message
func (r *MessageRepository) Update(ctx context.Context, message *models.Message) error {
	message.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": message.ID}, message)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindByCampaign returns every message of a campaign
func (r *MessageRepository) FindByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]*models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"campaign": campaignID}, opts)
}

// FindRecentByCampaign returns the newest messages of a campaign
func (r *MessageRepository) FindRecentByCampaign(ctx context.Context, campaignID primitive.ObjectID, limit int) ([]*models.Message, error) {
	return r.find(ctx, bson.M{"campaign": campaignID}, limitOpts(limit))
}

// FailQueued marks every queued message of the campaign as failed
func (r *MessageRepository) FailQueued(ctx context.Context, campaignID primitive.ObjectID, reason string, at time.Time) (int64, error) {
	filter := bson.M{"campaign": campaignID, "status": models.MessageStatusQueued}
	update := bson.M{"$set": bson.M{
		"status":       models.MessageStatusFailed,
		"failedReason": reason,
		"failedAt":     at,
		"updatedAt":    at,
	}}
	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Message, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	return messages, nil
}
