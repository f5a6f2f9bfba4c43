package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	customers repositories.CustomerRepository
	logger    *logrus.Logger
}

// NewCustomerService creates a new CustomerService implementation
func NewCustomerService(customers repositories.CustomerRepository, logger *logrus.Logger) CustomerService {
	return &customerService{customers: customers, logger: logger}
}

func (s *customerService) Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateCustomerRequest) (*models.Customer, error) {
	customer, err := newCustomer(ownerID, req)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, mapRepoErr(err, "Customer with this email")
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, customerID, ownerID primitive.ObjectID, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, customerID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Customer")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("Name is required")
		}
		customer.Name = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		customer.Email = email
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.TotalSpent != nil {
		customer.TotalSpent = *req.TotalSpent
	}
	if req.Visits != nil {
		customer.Visits = *req.Visits
	}
	if req.LastActiveAt != nil {
		customer.LastActiveAt = *req.LastActiveAt
	}
	if req.Status != nil {
		customer.Status = *req.Status
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, mapRepoErr(err, "Customer with this email")
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, customerID, ownerID primitive.ObjectID) error {
	return mapRepoErr(s.customers.Delete(ctx, customerID, ownerID), "Customer")
}

func (s *customerService) List(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Customer, error) {
	return s.customers.FindByOwner(ctx, ownerID)
}

func (s *customerService) Get(ctx context.Context, customerID, ownerID primitive.ObjectID) (*models.Customer, error) {
	customer, err := s.customers.FindByID(ctx, customerID, ownerID)
	if err != nil {
		return nil, mapRepoErr(err, "Customer")
	}
	return customer, nil
}

// Import validates every row, drops the invalid ones and inserts the rest in one batch
func (s *customerService) Import(ctx context.Context, ownerID primitive.ObjectID, reqs []*models.CreateCustomerRequest) (int, error) {
	batch := make([]*models.Customer, 0, len(reqs))
	for i, req := range reqs {
		customer, err := newCustomer(ownerID, req)
		if err != nil {
			s.logger.WithField("row", i+1).WithError(err).Warn("skipping invalid customer")
			continue
		}
		batch = append(batch, customer)
	}
	if len(batch) == 0 {
		return 0, nil
	}
	return s.customers.CreateMany(ctx, batch)
}

func newCustomer(ownerID primitive.ObjectID, req *models.CreateCustomerRequest) (*models.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("Name is required")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		UserID:     ownerID,
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		TotalSpent: req.TotalSpent,
		Visits:     req.Visits,
		Status:     req.Status,
	}
	if customer.Status == "" {
		customer.Status = models.CustomerStatusActive
	}
	if req.LastActiveAt != nil {
		customer.LastActiveAt = *req.LastActiveAt
	} else {
		customer.LastActiveAt = time.Now()
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperrors.Validation("Email is required")
	}
	if !emailRe.MatchString(email) {
		return "", apperrors.Validation("Please provide a valid email address")
	}
	return email, nil
}

func validateCustomer(c *models.Customer) error {
	if !c.Status.Valid() {
		return apperrors.Validation("Invalid customer status %q", c.Status)
	}
	if c.TotalSpent < 0 {
		return apperrors.Validation("Total spent cannot be negative")
	}
	if c.Visits < 0 {
		return apperrors.Validation("Visits cannot be negative")
	}
	return nil
}
