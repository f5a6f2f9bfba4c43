package services

import (
	"context"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	growthMonths     = 6
	performanceLimit = 5
)

var _ AnalyticsService = (*analyticsService)(nil)

type analyticsService struct {
	store *repositories.Store
	now   func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService implementation
func NewAnalyticsService(store *repositories.Store) AnalyticsService {
	return &analyticsService{store: store, now: time.Now}
}

// Dashboard computes the owner's totals, recent campaign performance and
// customer growth over the last six calendar months
func (s *analyticsService) Dashboard(ctx context.Context, ownerID primitive.ObjectID) (*models.DashboardStats, error) {
	customers, err := s.store.Customers.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	segments, err := s.store.Segments.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.store.Campaigns.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.Campaigns.CountByOwner(ctx, ownerID, models.CampaignStatusScheduled, models.CampaignStatusSending)
	if err != nil {
		return nil, err
	}
	revenue, err := s.store.Orders.SumAmountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalCustomers:      len(customers),
		TotalSegments:       int(segments),
		TotalCampaigns:      int(campaigns),
		ActiveCampaigns:     int(active),
		TotalRevenue:        revenue,
		CampaignPerformance: []models.CampaignPerformance{},
		CustomerGrowth:      make([]models.GrowthPoint, 0, growthMonths),
	}

	recent, err := s.store.Campaigns.FindByOwner(ctx, ownerID, performanceLimit)
	if err != nil {
		return nil, err
	}
	for _, c := range recent {
		stats.CampaignPerformance = append(stats.CampaignPerformance, models.CampaignPerformance{
			Name:      c.Name,
			Status:    c.Status,
			Sent:      c.Metrics.Sent,
			Delivered: c.Metrics.Delivered,
			Failed:    c.Metrics.Failed,
			Opened:    c.Metrics.Opened,
			Clicked:   c.Metrics.Clicked,
		})
	}

	now := s.now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := growthMonths - 1; i >= 0; i-- {
		from := current.AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)

		count, err := s.store.Customers.CountCreatedBetween(ctx, ownerID, from, to)
		if err != nil {
			return nil, err
		}
		monthRevenue, err := s.store.Orders.SumAmountBetween(ctx, ownerID, from, to)
		if err != nil {
			return nil, err
		}
		stats.CustomerGrowth = append(stats.CustomerGrowth, models.GrowthPoint{
			Month:     from.Format("Jan 2006"),
			Customers: int(count),
			Revenue:   monthRevenue,
		})
	}
	return stats, nil
}
