package smsgateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Gateway represents an SMS gateway interface
type Gateway interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// New returns the Twilio gateway, or the mock gateway when simulation is on
// or credentials are missing
func New(cfg config.SMSConfig, logger *logrus.Logger) Gateway {
	if cfg.Simulate || cfg.AccountSID == "" || cfg.AuthToken == "" {
		return NewMockGateway("sms", logger)
	}
	return NewTwilioGateway(cfg.BaseURL, cfg.AccountSID, cfg.AuthToken, cfg.From)
}

// TwilioGateway sends SMS through the Twilio Messages REST API
type TwilioGateway struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	httpClient *http.Client
}

// NewTwilioGateway creates a new TwilioGateway
func NewTwilioGateway(baseURL, accountSID, authToken, from string) *TwilioGateway {
	return &TwilioGateway{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AccountSID: accountSID,
		AuthToken:  authToken,
		From:       from,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendSMS sends an SMS and returns the provider message SID
func (g *TwilioGateway) SendSMS(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", g.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", g.BaseURL, g.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(g.AccountSID, g.AuthToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var response struct {
		SID     string `json:"sid"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(respBody, &response)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if response.Message != "" {
			return "", fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, response.Message)
		}
		return "", fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(respBody))
	}
	if response.SID == "" {
		return "", fmt.Errorf("sms gateway response has no message sid")
	}

	return response.SID, nil
}

// MockGateway logs messages instead of sending them
type MockGateway struct {
	Name   string
	logger *logrus.Logger
}

// NewMockGateway creates a new Mock SMS gateway
func NewMockGateway(name string, logger *logrus.Logger) *MockGateway {
	return &MockGateway{Name: name, logger: logger}
}

// SendSMS simulates a send and returns a generated message id
func (g *MockGateway) SendSMS(_ context.Context, to, body string) (string, error) {
	msgID := fmt.Sprintf("%s-sim-%s", g.Name, uuid.NewString())
	if g.logger != nil {
		g.logger.WithFields(logrus.Fields{
			"to":         to,
			"message_id": msgID,
			"length":     len(body),
		}).Info("SMS simulated")
	}
	return msgID, nil
}
