package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var _ UserService = (*userService)(nil)

type userService struct {
	users repositories.UserRepository
}

// NewUserService creates a new UserService implementation
func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users}
}

// GetProfile retrieves a user by ID
func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, "User")
	}
	return user, nil
}

// UpdateProfile overwrites the non-empty fields of req
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, "User")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Email != "" {
		email, err := normalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err == nil && other.ID != user.ID {
				return nil, apperrors.Conflict("Email is already in use")
			}
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, apperrors.Validation("Password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.Password = string(hashed)
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Location != "" {
		user.Location = req.Location
	}
	if req.Title != "" {
		user.Title = req.Title
	}
	if req.Department != "" {
		user.Department = req.Department
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapRepoErr(err, "User")
	}
	return user, nil
}
