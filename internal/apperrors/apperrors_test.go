package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("Campaign"), http.StatusNotFound},
		{"validation", Validation("name is required"), http.StatusBadRequest},
		{"conflict", Conflict("campaign is already being sent"), http.StatusBadRequest},
		{"external", ExternalService("Failed to generate insights", errors.New("timeout")), http.StatusInternalServerError},
		{"unauthorized", Unauthorized("Invalid email or password"), http.StatusUnauthorized},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("loading: %w", NotFound("Segment")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("Customer"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Campaign not found", NotFound("Campaign").Error())
	assert.Equal(t, "Failed to generate insights: quota exceeded",
		ExternalService("Failed to generate insights", errors.New("quota exceeded")).Error())
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("driver exploded")))
	assert.Equal(t, "bad value", PublicMessage(Validation("bad value")))
	assert.Equal(t, "Failed to send message", PublicMessage(ExternalService("Failed to send message", nil)))
	assert.Equal(t, "Failed to send message: smtp: 535", PublicMessage(ExternalService("Failed to send message", errors.New("smtp: 535"))))
}
