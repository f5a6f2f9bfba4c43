package googleauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"g-1","email":"ada@example.com","verified_email":true,"name":"Ada Lovelace"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func client(srv *httptest.Server) *Client {
	return NewWithEndpoints("cid", "secret", "http://localhost/cb",
		oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}, srv.URL+"/userinfo")
}

func TestExchange(t *testing.T) {
	c := client(newGoogle(t))

	p, err := c.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "g-1", p.ID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.True(t, p.VerifiedEmail)
}

func TestExchangeBadCode(t *testing.T) {
	c := client(newGoogle(t))

	_, err := c.Exchange(context.Background(), "bad")
	assert.Error(t, err)
}

func TestProfileFromAccessToken(t *testing.T) {
	c := client(newGoogle(t))

	p, err := c.ProfileFromAccessToken(context.Background(), "at-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.Name)

	_, err = c.ProfileFromAccessToken(context.Background(), "wrong")
	assert.Error(t, err)
}

func TestAuthCodeURL(t *testing.T) {
	c := New("cid", "secret", "http://localhost/cb")
	assert.True(t, c.Configured())
	assert.Contains(t, c.AuthCodeURL("xyz"), "state=xyz")
	assert.False(t, New("", "", "").Configured())
}
