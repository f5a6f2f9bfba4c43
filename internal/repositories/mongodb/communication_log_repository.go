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

var _ repositories.CommunicationLogRepository = (*CommunicationLogRepository)(nil)

// CommunicationLogRepository handles MongoDB operations for CommunicationLog
type CommunicationLogRepository struct {
	collection *mongo.Collection
}

// NewCommunicationLogRepository creates a new CommunicationLogRepository
func NewCommunicationLogRepository(db *mongo.Database) *CommunicationLogRepository {
	return &CommunicationLogRepository{
		collection: db.Collection(logsCollection),
	}
}

// Create inserts a log entry
func (r *CommunicationLogRepository) Create(ctx context.Context, log *models.CommunicationLog) error {
	now := time.Now()
	log.ID = primitive.NewObjectID()
	if log.SentAt.IsZero() {
		log.SentAt = now
	}
	log.CreatedAt = now
	log.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, log)
	return translateErr(err)
}

// FindByID finds a log entry regardless of owner; receipts arrive unauthenticated
func (r *CommunicationLogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.CommunicationLog, error) {
	var log models.CommunicationLog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log); err != nil {
		return nil, translateErr(err)
	}
	return &log, nil
}

// FindByOwner lists the owner's log entries, most recently sent first
func (r *CommunicationLogRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]*models.CommunicationLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*models.CommunicationLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*models.CommunicationLog{}
	}
	return logs, nil
}

// UpdateStatus applies a delivery receipt
func (r *CommunicationLogRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.LogStatus, failureReason string) error {
	update := bson.M{"$set": bson.M{
		"status":        status,
		"failureReason": failureReason,
		"updatedAt":     time.Now(),
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
