package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ArowuTest/customerconnect-backend/internal/apperrors"
	"github.com/ArowuTest/customerconnect-backend/internal/models"
	"github.com/ArowuTest/customerconnect-backend/internal/repositories"
	"github.com/ArowuTest/customerconnect-backend/pkg/googleauth"
	"github.com/ArowuTest/customerconnect-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// GoogleIdentity resolves Google accounts; implemented by googleauth.Client
type GoogleIdentity interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*googleauth.Profile, error)
	ProfileFromAccessToken(ctx context.Context, accessToken string) (*googleauth.Profile, error)
}

var errInvalidCredentials = apperrors.Unauthorized("Invalid email or password")

var _ AuthService = (*authService)(nil)

type authService struct {
	users  repositories.UserRepository
	tokens *jwt.TokenService
	google GoogleIdentity
	logger *logrus.Logger
}

// NewAuthService creates a new AuthService implementation
func NewAuthService(users repositories.UserRepository, tokens *jwt.TokenService, google GoogleIdentity, logger *logrus.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		google: google,
		logger: logger,
	}
}

// Register handles user registration
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.Conflict("User already exists")
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if len(req.Password) < 6 {
		return nil, apperrors.Validation("Password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapRepoErr(err, "User")
	}
	return s.respond(user)
}

// Login handles user login
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	// accounts created through Google have no password
	if user.Password == "" {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	return s.respond(user)
}

// GoogleSignIn signs in with a Google access token or authorization code,
// linking or creating the local account
func (s *authService) GoogleSignIn(ctx context.Context, req *models.GoogleAuthRequest) (*models.AuthResponse, error) {
	if s.google == nil || !s.google.Configured() {
		return nil, apperrors.Validation("Google sign-in is not configured")
	}

	var (
		profile *googleauth.Profile
		err     error
	)
	switch {
	case req.AccessToken != "":
		profile, err = s.google.ProfileFromAccessToken(ctx, req.AccessToken)
	case req.Code != "":
		profile, err = s.google.Exchange(ctx, req.Code)
	default:
		return nil, apperrors.Validation("Google access token or code is required")
	}
	if err != nil {
		s.logger.WithError(err).Warn("google sign-in failed")
		return nil, apperrors.Unauthorized("Google authentication failed")
	}

	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return s.respond(user)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	email := strings.ToLower(profile.Email)
	user, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		user.GoogleID = profile.ID
		if user.Picture == "" {
			user.Picture = profile.Picture
		}
		user.IsVerified = user.IsVerified || profile.VerifiedEmail
		if err := s.users.Update(ctx, user); err != nil {
			return nil, mapRepoErr(err, "User")
		}
	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{
			Name:       profile.Name,
			Email:      email,
			GoogleID:   profile.ID,
			Picture:    profile.Picture,
			IsVerified: profile.VerifiedEmail,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, mapRepoErr(err, "User")
		}
	default:
		return nil, err
	}
	return s.respond(user)
}

// GoogleAuthURL returns the consent page the client should redirect to
func (s *authService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.Configured() {
		return "", apperrors.Validation("Google sign-in is not configured")
	}
	return s.google.AuthCodeURL(state), nil
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID.Hex(), user.Email)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	return &models.AuthResponse{
		ID:      user.ID.Hex(),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Picture: user.Picture,
		Token:   token,
	}, nil
}
