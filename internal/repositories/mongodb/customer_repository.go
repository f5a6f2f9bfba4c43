package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/ArowuTest/customerconnect-backend/internal/rules"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository handles MongoDB operations for Customer
type CustomerRepository struct {
	collection *mongo.Collection
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		collection: db.Collection(customersCollection),
	}
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	now := time.Now()
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, customer)
	return translateErr(err)
}

// CreateMany inserts customers in one unordered batch and reports how many
// were stored; duplicates are skipped.
func (r *CustomerRepository) CreateMany(ctx context.Context, customers []*models.Customer) (int, error) {
	if len(customers) == 0 {
		return 0, nil
	}

	now := time.Now()
	docs := make([]interface{}, len(customers))
	for i, c := range customers {
		c.ID = primitive.NewObjectID()
		c.CreatedAt = now
		c.UpdatedAt = now
		docs[i] = c
	}

	res, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return inserted, err
	}
	return inserted, nil
}

// FindByID finds a customer owned by ownerID
func (r *CustomerRepository) FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user": ownerID}).Decode(&customer)
	if err != nil {
		return nil, translateErr(err)
	}
	return &customer, nil
}

// FindByOwner lists the owner's customers newest first
func (r *CustomerRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Customer, error) {
	return r.find(ctx, bson.M{"user": ownerID}, limitOpts(0))
}

// FindMatching returns the owner's customers selected by predicate
func (r *CustomerRepository) FindMatching(ctx context.Context, ownerID primitive.ObjectID, predicate *rules.Predicate) ([]*models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, predicate.ScopedTo(ownerID), opts)
}

// CountMatching counts the owner's customers selected by predicate
func (r *CustomerRepository) CountMatching(ctx context.Context, ownerID primitive.ObjectID, predicate *rules.Predicate) (int64, error) {
	return r.collection.CountDocuments(ctx, predicate.ScopedTo(ownerID))
}

// CountCreatedBetween counts customers created in [from, to)
func (r *CustomerRepository) CountCreatedBetween(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"user":      ownerID,
		"createdAt": bson.M{"$gte": from, "$lt": to},
	})
}

// Update replaces a customer owned by customer.UserID
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": customer.ID, "user": customer.UserID}, customer)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// RecordPurchase applies an order to the customer's engagement counters
func (r *CustomerRepository) RecordPurchase(ctx context.Context, id, ownerID primitive.ObjectID, amount float64, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"totalSpent": amount, "visits": 1},
		"$set": bson.M{"lastActiveAt": at, "updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "user": ownerID}, update)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a customer owned by ownerID
func (r *CustomerRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Customer, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var customers []*models.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}

	// Ensure an empty slice is returned instead of nil if no customers found
	if customers == nil {
		customers = []*models.Customer{}
	}
	return customers, nil
}
