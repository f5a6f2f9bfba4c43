package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/ArowuTest/customerconnect-backend/internal/rules"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository stores customers in memory
type CustomerRepository struct {
	db *db
}

// Create inserts a customer; email is unique per owner
func (r *CustomerRepository) Create(_ context.Context, customer *models.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.insertLocked(customer, time.Now())
}

// CreateMany inserts customers, skipping duplicates
func (r *CustomerRepository) CreateMany(_ context.Context, customers []*models.Customer) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	inserted := 0
	for _, c := range customers {
		if err := r.insertLocked(c, now); err == nil {
			inserted++
		}
	}
	return inserted, nil
}

// FindByID finds a customer owned by ownerID
func (r *CustomerRepository) FindByID(_ context.Context, id, ownerID primitive.ObjectID) (*models.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.customers[id]
	if !ok || c.UserID != ownerID {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

// FindByOwner lists the owner's customers newest first
func (r *CustomerRepository) FindByOwner(_ context.Context, ownerID primitive.ObjectID) ([]*models.Customer, error) {
	out := r.filter(func(c *models.Customer) bool { return c.UserID == ownerID })
	sortNewest(out, func(c *models.Customer) (time.Time, primitive.ObjectID) { return c.CreatedAt, c.ID })
	return out, nil
}

// FindMatching returns the owner's customers selected by predicate, in insertion order
func (r *CustomerRepository) FindMatching(_ context.Context, ownerID primitive.ObjectID, predicate *rules.Predicate) ([]*models.Customer, error) {
	var matchErr error
	out := r.filter(func(c *models.Customer) bool {
		if c.UserID != ownerID || matchErr != nil {
			return false
		}
		ok, err := matches(predicate, c)
		if err != nil {
			matchErr = err
		}
		return ok
	})
	if matchErr != nil {
		return nil, matchErr
	}
	sortByID(out)
	return out, nil
}

// CountMatching counts the owner's customers selected by predicate
func (r *CustomerRepository) CountMatching(ctx context.Context, ownerID primitive.ObjectID, predicate *rules.Predicate) (int64, error) {
	out, err := r.FindMatching(ctx, ownerID, predicate)
	if err != nil {
		return 0, err
	}
	return int64(len(out)), nil
}

// CountCreatedBetween counts customers created in [from, to)
func (r *CustomerRepository) CountCreatedBetween(_ context.Context, ownerID primitive.ObjectID, from, to time.Time) (int64, error) {
	out := r.filter(func(c *models.Customer) bool {
		return c.UserID == ownerID && !c.CreatedAt.Before(from) && c.CreatedAt.Before(to)
	})
	return int64(len(out)), nil
}

// Update replaces a customer owned by customer.UserID
func (r *CustomerRepository) Update(_ context.Context, customer *models.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.customers[customer.ID]
	if !ok || existing.UserID != customer.UserID {
		return repositories.ErrNotFound
	}
	if r.emailTakenLocked(customer) {
		return repositories.ErrDuplicate
	}
	customer.UpdatedAt = time.Now()
	r.db.customers[customer.ID] = *customer
	return nil
}

// RecordPurchase applies an order to the customer's engagement counters
func (r *CustomerRepository) RecordPurchase(_ context.Context, id, ownerID primitive.ObjectID, amount float64, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.customers[id]
	if !ok || c.UserID != ownerID {
		return repositories.ErrNotFound
	}
	c.TotalSpent += amount
	c.Visits++
	c.LastActiveAt = at
	c.UpdatedAt = time.Now()
	r.db.customers[id] = c
	return nil
}

// Delete deletes a customer owned by ownerID
func (r *CustomerRepository) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.customers[id]
	if !ok || c.UserID != ownerID {
		return repositories.ErrNotFound
	}
	delete(r.db.customers, id)
	return nil
}

func (r *CustomerRepository) insertLocked(customer *models.Customer, now time.Time) error {
	if r.emailTakenLocked(customer) {
		return repositories.ErrDuplicate
	}
	customer.ID = primitive.NewObjectID()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	r.db.customers[customer.ID] = *customer
	return nil
}

func (r *CustomerRepository) emailTakenLocked(customer *models.Customer) bool {
	for _, c := range r.db.customers {
		if c.ID != customer.ID && c.UserID == customer.UserID && c.Email == customer.Email {
			return true
		}
	}
	return false
}

func (r *CustomerRepository) filter(keep func(*models.Customer) bool) []*models.Customer {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Customer{}
	for _, c := range r.db.customers {
		c := c
		if keep(&c) {
			out = append(out, &c)
		}
	}
	return out
}

func matches(predicate *rules.Predicate, c *models.Customer) (bool, error) {
	doc, err := rules.ToDocument(c)
	if err != nil {
		return false, err
	}
	return predicate.Matches(doc), nil
}

func sortByID(customers []*models.Customer) {
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].ID.Hex() < customers[j].ID.Hex()
	})
}
