package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReturnsFirstCandidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "k1", r.URL.Query().Get("key"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Summary: fine"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k1", "gemini-2.0-flash", time.Second, false)
	text, err := c.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Summary: fine", text)
}

func TestGenerateSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k1", "m", time.Second, false)
	_, err := c.Generate(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, "Resource has been exhausted", err.Error())
}

func TestGenerateEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k1", "m", time.Second, false)
	_, err := c.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestGenerateMock(t *testing.T) {
	c := NewClient("http://unused", "", "m", 0, true)
	text, err := c.Generate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, text, "Summary:")
}

func TestGenerateWithoutKey(t *testing.T) {
	c := NewClient("http://unused", "", "m", 0, false)
	_, err := c.Generate(context.Background(), "anything")
	assert.Error(t, err)
}
