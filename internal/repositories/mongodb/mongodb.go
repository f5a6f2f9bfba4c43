// Package mongodb implements the repositories on top of the MongoDB driver.
package mongodb

import (
	"context"
	"errors"

	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	usersCollection     = "users"
	customersCollection = "customers"
	segmentsCollection  = "segments"
	campaignsCollection = "campaigns"
	messagesCollection  = "messages"
	logsCollection      = "communicationlogs"
	ordersCollection    = "orders"
)

// NewStore builds every repository over db
func NewStore(db *mongo.Database) *repositories.Store {
	return &repositories.Store{
		Users:     NewUserRepository(db),
		Customers: NewCustomerRepository(db),
		Segments:  NewSegmentRepository(db),
		Campaigns: NewCampaignRepository(db),
		Messages:  NewMessageRepository(db),
		Logs:      NewCommunicationLogRepository(db),
		Orders:    NewOrderRepository(db),
	}
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness and sorting
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		customersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		segmentsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		campaignsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledDate", Value: 1}}},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "campaign", Value: 1}, {Key: "customer", Value: 1}}, Options: unique},
		},
		logsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "sentAt", Value: -1}}},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "orderId", Value: 1}}, Options: unique},
		},
	}

	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

// translateErr maps driver errors onto the repository sentinels
func translateErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrDuplicate
	default:
		return err
	}
}

func limitOpts(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
