package memory

import (
	"context"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OrderRepository stores orders in memory
type OrderRepository struct {
	db *db
}

// Create inserts an order; orderId is unique per owner
func (r *OrderRepository) Create(_ context.Context, order *models.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, o := range r.db.orders {
		if o.UserID == order.UserID && o.OrderID == order.OrderID {
			return repositories.ErrDuplicate
		}
	}

	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.db.orders[order.ID] = *order
	return nil
}

// FindByID finds an order owned by ownerID
func (r *OrderRepository) FindByID(_ context.Context, id, ownerID primitive.ObjectID) (*models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	o, ok := r.db.orders[id]
	if !ok || o.UserID != ownerID {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

// FindByOwner lists the owner's orders by date, newest first
func (r *OrderRepository) FindByOwner(_ context.Context, ownerID primitive.ObjectID) ([]*models.Order, error) {
	out := r.filter(func(o *models.Order) bool { return o.UserID == ownerID })
	sortNewest(out, func(o *models.Order) (time.Time, primitive.ObjectID) { return o.Date, o.ID })
	return out, nil
}

// SumAmountByOwner totals every order of the owner
func (r *OrderRepository) SumAmountByOwner(_ context.Context, ownerID primitive.ObjectID) (float64, error) {
	return sum(r.filter(func(o *models.Order) bool { return o.UserID == ownerID })), nil
}

// SumAmountBetween totals the owner's orders dated in [from, to)
func (r *OrderRepository) SumAmountBetween(_ context.Context, ownerID primitive.ObjectID, from, to time.Time) (float64, error) {
	return sum(r.filter(func(o *models.Order) bool {
		return o.UserID == ownerID && !o.Date.Before(from) && o.Date.Before(to)
	})), nil
}

func (r *OrderRepository) filter(keep func(*models.Order) bool) []*models.Order {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := []*models.Order{}
	for _, o := range r.db.orders {
		o := o
		if keep(&o) {
			out = append(out, &o)
		}
	}
	return out
}

func sum(orders []*models.Order) float64 {
	total := 0.0
	for _, o := range orders {
		total += o.Amount
	}
	return total
}
