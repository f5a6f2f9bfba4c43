package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/rules"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches, including when the
	// document exists but belongs to another owner
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate key")
	// ErrStale is returned when a conditional write finds the document in
	// another state than the caller read
	ErrStale = errors.New("document changed since it was read")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// CustomerRepository defines the interface for customer data operations.
// Every read and write is scoped to the owning user.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	CreateMany(ctx context.Context, customers []*models.Customer) (int, error)
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Customer, error)
	FindMatching(ctx context.Context, ownerID primitive.ObjectID, predicate *rules.Predicate) ([]*models.Customer, error)
	CountMatching(ctx context.Context, ownerID primitive.ObjectID, predicate *rules.Predicate) (int64, error)
	CountCreatedBetween(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) (int64, error)
	Update(ctx context.Context, customer *models.Customer) error
	// RecordPurchase atomically adds amount to totalSpent, increments visits and refreshes lastActiveAt
	RecordPurchase(ctx context.Context, id, ownerID primitive.ObjectID, amount float64, at time.Time) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

// SegmentRepository defines the interface for segment data operations
type SegmentRepository interface {
	Create(ctx context.Context, segment *models.Segment) error
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Segment, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Segment, error)
	Update(ctx context.Context, segment *models.Segment) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
}

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Campaign, error)
	// FindByOwner returns the owner's campaigns newest first; limit <= 0 means all
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]*models.Campaign, error)
	// Update writes the editable fields only while the stored status still
	// equals expected; otherwise it returns ErrStale
	Update(ctx context.Context, campaign *models.Campaign, expected models.CampaignStatus) error
	// Delete refuses a campaign that is sending or sent with ErrStale
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	CountByOwner(ctx context.Context, ownerID primitive.ObjectID, statuses ...models.CampaignStatus) (int64, error)

	// ClaimForSending moves a draft or scheduled campaign to sending in one
	// conditional write. ErrNotFound means nothing matched the guard.
	ClaimForSending(ctx context.Context, id, ownerID primitive.ObjectID, at time.Time) (*models.Campaign, error)
	// ReclaimStalled takes over a sending campaign whose sendStartedAt is
	// older than staleBefore. ErrNotFound means nothing matched the guard.
	ReclaimStalled(ctx context.Context, id, ownerID primitive.ObjectID, staleBefore, at time.Time) (*models.Campaign, error)
	// CompleteSend stores the final metrics and marks the campaign sent
	CompleteSend(ctx context.Context, id primitive.ObjectID, metrics models.CampaignMetrics, at time.Time) error
	// FindDue returns scheduled campaigns whose scheduledDate has passed
	FindDue(ctx context.Context, now time.Time, limit int) ([]*models.Campaign, error)
	// FindStalled returns sending campaigns whose sendStartedAt is older than staleBefore
	FindStalled(ctx context.Context, staleBefore time.Time, limit int) ([]*models.Campaign, error)
}

// MessageRepository defines the interface for per-recipient message records.
// A campaign holds at most one message per customer.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	Update(ctx context.Context, message *models.Message) error
	FindByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]*models.Message, error)
	FindRecentByCampaign(ctx context.Context, campaignID primitive.ObjectID, limit int) ([]*models.Message, error)
	// FailQueued marks every queued message of the campaign as failed
	FailQueued(ctx context.Context, campaignID primitive.ObjectID, reason string, at time.Time) (int64, error)
}

// CommunicationLogRepository defines the interface for the send audit trail
type CommunicationLogRepository interface {
	Create(ctx context.Context, log *models.CommunicationLog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CommunicationLog, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]*models.CommunicationLog, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.LogStatus, failureReason string) error
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Order, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Order, error)
	SumAmountByOwner(ctx context.Context, ownerID primitive.ObjectID) (float64, error)
	SumAmountBetween(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time) (float64, error)
}

// Store bundles every repository the services need
type Store struct {
	Users     UserRepository
	Customers CustomerRepository
	Segments  SegmentRepository
	Campaigns CampaignRepository
	Messages  MessageRepository
	Logs      CommunicationLogRepository
	Orders    OrderRepository
}
