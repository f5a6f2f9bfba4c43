package services

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ OrderService = (*orderService)(nil)

type orderService struct {
	orders    repositories.OrderRepository
	customers repositories.CustomerRepository
	logger    *logrus.Logger
}

// NewOrderService creates a new OrderService implementation
func NewOrderService(orders repositories.OrderRepository, customers repositories.CustomerRepository, logger *logrus.Logger) OrderService {
	return &orderService{orders: orders, customers: customers, logger: logger}
}

// Create records an order and applies it to the customer's spend and visits
func (s *orderService) Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateOrderRequest) (*models.Order, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, apperrors.Validation("Order id is required")
	}
	if req.Amount < 0 {
		return nil, apperrors.Validation("Amount cannot be negative")
	}
	customerID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.CustomerID))
	if err != nil {
		return nil, apperrors.Validation("Invalid customer id")
	}
	if _, err := s.customers.FindByID(ctx, customerID, ownerID); err != nil {
		return nil, mapRepoErr(err, "Customer")
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	order := &models.Order{
		UserID:     ownerID,
		OrderID:    orderID,
		CustomerID: customerID,
		Amount:     req.Amount,
		Date:       date,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, mapRepoErr(err, "Order "+orderID)
	}

	if err := s.customers.RecordPurchase(ctx, customerID, ownerID, order.Amount, date); err != nil {
		// the order stands; counters can be rebuilt from orders
		s.logger.WithError(err).WithField("order", order.ID.Hex()).Error("failed to apply order to customer")
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Order, error) {
	return s.orders.FindByOwner(ctx, ownerID)
}

func (s *orderService) Get(ctx context.Context, orderID, ownerID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Order")
	}
	return order, nil
}
