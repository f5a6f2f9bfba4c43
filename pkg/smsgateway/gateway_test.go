package smsgateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ArowuTest/customerconnect-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioGatewaySendSMS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001", r.PostForm.Get("To"))
		assert.Equal(t, "+15559999", r.PostForm.Get("From"))
		assert.Equal(t, "Hi Ada", r.PostForm.Get("Body"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM42"}`))
	}))
	defer srv.Close()

	g := NewTwilioGateway(srv.URL+"/", "AC123", "secret", "+15559999")
	sid, err := g.SendSMS(context.Background(), "+15550001", "Hi Ada")
	require.NoError(t, err)
	assert.Equal(t, "SM42", sid)
}

func TestTwilioGatewayReportsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not valid."}`))
	}))
	defer srv.Close()

	g := NewTwilioGateway(srv.URL, "AC123", "secret", "+15559999")
	_, err := g.SendSMS(context.Background(), "nope", "Hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestNewFallsBackToMock(t *testing.T) {
	g := New(config.SMSConfig{Simulate: false}, nil)
	_, isMock := g.(*MockGateway)
	assert.True(t, isMock)

	id, err := g.SendSMS(context.Background(), "+15550001", "hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "sms-sim-"))
}
