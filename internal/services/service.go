package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SegmentService defines the interface for segment operations
type SegmentService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateSegmentRequest) (*models.Segment, error)
	Update(ctx context.Context, segmentID, ownerID primitive.ObjectID, req *models.UpdateSegmentRequest) (*models.Segment, error)
	Preview(ctx context.Context, ownerID primitive.ObjectID, rs []models.Rule, combinator models.Combinator) (int64, error)
	// ResolveCustomers returns the live audience of a stored segment
	ResolveCustomers(ctx context.Context, segmentID, ownerID primitive.ObjectID) ([]*models.Customer, error)
	ResolveAudience(ctx context.Context, segment *models.Segment) ([]*models.Customer, error)
	Delete(ctx context.Context, segmentID, ownerID primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Segment, error)
	Get(ctx context.Context, segmentID, ownerID primitive.ObjectID) (*models.Segment, error)
}

// CampaignService defines the interface for campaign operations
type CampaignService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateCampaignRequest) (*models.Campaign, error)
	Update(ctx context.Context, campaignID, ownerID primitive.ObjectID, req *models.UpdateCampaignRequest) (*models.Campaign, error)
	Delete(ctx context.Context, campaignID, ownerID primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Campaign, error)
	Get(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.Campaign, error)
	Send(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.DeliveryResult, error)
	// Resume finishes a send whose worker stopped before completing
	Resume(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.DeliveryResult, error)
	// SendDue sends every scheduled campaign whose date has passed
	SendDue(ctx context.Context) (int, error)
	// ResumeStalled resumes every campaign stuck in sending
	ResumeStalled(ctx context.Context) (int, error)
}

// InsightService defines the interface for AI-assisted analysis
type InsightService interface {
	Analyze(ctx context.Context, campaignID, ownerID primitive.ObjectID) (*models.CampaignInsights, error)
	Chat(ctx context.Context, query string) (string, error)
}

// CustomerService defines the interface for customer operations
type CustomerService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateCustomerRequest) (*models.Customer, error)
	Update(ctx context.Context, customerID, ownerID primitive.ObjectID, req *models.UpdateCustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, customerID, ownerID primitive.ObjectID) error
	List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Customer, error)
	Get(ctx context.Context, customerID, ownerID primitive.ObjectID) (*models.Customer, error)
	// Import bulk-inserts customers, skipping invalid rows and duplicates
	Import(ctx context.Context, ownerID primitive.ObjectID, reqs []*models.CreateCustomerRequest) (int, error)
}

// OrderService defines the interface for order operations
type OrderService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateOrderRequest) (*models.Order, error)
	List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Order, error)
	Get(ctx context.Context, orderID, ownerID primitive.ObjectID) (*models.Order, error)
}

// CommunicationService defines the interface for the delivery log and direct sends
type CommunicationService interface {
	ListLogs(ctx context.Context, ownerID primitive.ObjectID) ([]*models.CommunicationLog, error)
	HandleDeliveryReceipt(ctx context.Context, req *models.DeliveryReceiptRequest) (*models.CommunicationLog, error)
	SendDirect(ctx context.Context, ownerID primitive.ObjectID, req *models.DirectMessageRequest) (*models.CommunicationLog, error)
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	GoogleSignIn(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error)
	GoogleAuthURL(state string) (string, error)
}

// UserService defines the interface for profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)
}

// AnalyticsService defines the interface for dashboard figures
type AnalyticsService interface {
	Dashboard(ctx context.Context, ownerID primitive.ObjectID) (*models.DashboardStats, error)
}

// mapRepoErr turns storage sentinels into application errors
func mapRepoErr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.Conflict("%s already exists", resource)
	default:
		return err
	}
}
