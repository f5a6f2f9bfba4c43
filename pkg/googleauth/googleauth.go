// Package googleauth resolves Google accounts from OAuth authorization codes
// or access tokens.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

const (
	authURL     = "https://accounts.google.com/o/oauth2/auth"
	tokenURL    = "https://oauth2.googleapis.com/token"
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Profile is the subset of the Google userinfo document the API uses
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Client exchanges codes and fetches profiles
type Client struct {
	config      *oauth2.Config
	userInfoURL string
}

// New creates a Client for the Google OAuth application
func New(clientID, clientSecret, redirectURL string) *Client {
	return NewWithEndpoints(clientID, clientSecret, redirectURL,
		oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}, userInfoURL)
}

// NewWithEndpoints creates a Client against explicit endpoints
func NewWithEndpoints(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, profileURL string) *Client {
	return &Client{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: profileURL,
	}
}

// Configured reports whether client credentials are present
func (c *Client) Configured() bool {
	return c.config.ClientID != "" && c.config.ClientSecret != ""
}

// AuthCodeURL returns the consent page URL carrying state
func (c *Client) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for a token and loads the profile
func (c *Client) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}
	return c.profile(ctx, token)
}

// ProfileFromAccessToken loads the profile for a token obtained by the client app
func (c *Client) ProfileFromAccessToken(ctx context.Context, accessToken string) (*Profile, error) {
	return c.profile(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

func (c *Client) profile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned %d", resp.StatusCode)
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if p.ID == "" || p.Email == "" {
		return nil, errors.New("google userinfo: profile has no id or email")
	}
	return &p, nil
}
