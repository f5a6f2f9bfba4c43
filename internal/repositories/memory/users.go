package memory

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository stores users in memory
type UserRepository struct {
	db *db
}

// Create inserts a new user; emails are unique
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.db.users[user.ID] = *user
	return nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	return r.findOne(func(u models.User) bool { return u.Email == email })
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(func(u models.User) bool { return u.ID == id })
}

// FindByGoogleID finds a user linked to a Google account
func (r *UserRepository) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return r.findOne(func(u models.User) bool { return googleID != "" && u.GoogleID == googleID })
}

// Update replaces a user
func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	for _, u := range r.db.users {
		if u.ID != user.ID && strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	r.db.users[user.ID] = *user
	return nil
}

func (r *UserRepository) findOne(match func(models.User) bool) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}
