package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.SegmentRepository = (*SegmentRepository)(nil)

// SegmentRepository handles MongoDB operations for Segment
type SegmentRepository struct {
	collection *mongo.Collection
}

// NewSegmentRepository creates a new SegmentRepository
func NewSegmentRepository(db *mongo.Database) *SegmentRepository {
	return &SegmentRepository{
		collection: db.Collection(segmentsCollection),
	}
}

// Create inserts a new segment
func (r *SegmentRepository) Create(ctx context.Context, segment *models.Segment) error {
	now := time.Now()
	segment.ID = primitive.NewObjectID()
	segment.CreatedAt = now
	segment.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, segment)
	return translateErr(err)
}

// FindByID finds a segment owned by ownerID
func (r *SegmentRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Segment, error) {
	var segment models.Segment
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user": ownerID}).Decode(&segment)
	if err != nil {
		return nil, translateErr(err)
	}
	return &segment, nil
}

// FindByOwner lists the owner's segments newest first
func (r *SegmentRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Segment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user": ownerID}, limitOpts(0))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var segments []*models.Segment
	if err := cursor.All(ctx, &segments); err != nil {
		return nil, err
	}
	if segments == nil {
		segments = []*models.Segment{}
	}
	return segments, nil
}

// Update replaces a segment owned by segment.UserID
func (r *SegmentRepository) Update(ctx context.Context, segment *models.Segment) error {
	segment.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": segment.ID, "user": segment.UserID}, segment)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a segment owned by ownerID
func (r *SegmentRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// CountByOwner counts the owner's segments
func (r *SegmentRepository) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user": ownerID})
}
