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

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OrderRepository handles MongoDB operations for Order
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(ordersCollection),
	}
}

// Create inserts an order; a repeated orderId for the same owner fails with repositories.ErrDuplicate
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, order)
	return translateErr(err)
}

// FindByID finds an order owned by ownerID
func (r *OrderRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": id, "user": ownerID}).Decode(&order); err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

// FindByOwner lists the owner's orders by date, newest first
func (r *OrderRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// SumAmountByOwner totals every order of the owner
func (r *OrderRepository) SumAmountByOwner(ctx context.Context, ownerID primitive.ObjectID) (float64, error) {
	return r.sum(ctx, bson.M{"user": ownerID})
}

// SumAmountBetween totals the owner's orders dated in [from, to)
func (r *OrderRepository) SumAmountBetween(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) (float64, error) {
	return r.sum(ctx, bson.M{"user": ownerID, "date": bson.M{"$gte": from, "$lt": to}})
}

func (r *OrderRepository) sum(ctx context.Context, match bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}
