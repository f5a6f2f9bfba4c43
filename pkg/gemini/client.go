// Package gemini is a minimal client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrEmptyReply is returned when the service answers without any text
var ErrEmptyReply = errors.New("text generation returned no content")

// Generator turns a prompt into free text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client represents a Gemini API client
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	MockAPI bool
	client  *http.Client
}

// NewClient creates a new Gemini API client
func NewClient(baseURL, apiKey, model string, timeout time.Duration, mockAPI bool) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		MockAPI: mockAPI,
		client:  &http.Client{Timeout: timeout},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt as a single user turn and returns the first candidate's text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.MockAPI {
		return mockReply, nil
	}
	if c.APIKey == "" {
		return "", errors.New("text generation API key is not configured")
	}

	payload, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, url.PathEscape(c.Model), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// the URL carries the key; report only the transport failure
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return "", fmt.Errorf("failed to send request: %w", urlErr.Err)
		}
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if out.Error != nil && out.Error.Message != "" {
		return "", errors.New(out.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyReply
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

const mockReply = `Summary: The campaign reached most of its audience and delivery failures were limited to customers without valid contact details.

Suggestions:
- Remind lapsed customers of their favourite products with a time-limited offer
- Follow up high spenders with an early-access invitation

Tags: Win-back, Loyalty

Next Best Send Time: Thursday 6 PM`
