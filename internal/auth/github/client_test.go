package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeProvider(t *testing.T, scopesHeader string) (*httptest.Server, Config) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		_, _ = w.Write([]byte("access_token=provider-token&token_type=bearer"))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token provider-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("X-OAuth-Scopes", scopesHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 101, "login": "octocat", "name": "The Octocat", "avatar_url": "https://a/o.png"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		AuthURL:      srv.URL + "/login/oauth/authorize",
		TokenURL:     srv.URL + "/login/oauth/access_token",
		APIBaseURL:   srv.URL,
		RedirectURL:  "https://api.example.test/callback",
		Scopes:       []string{"public_repo", "user:email"},
	}
}

func TestAuthCodeURLUsesCommaSeparatedScopes(t *testing.T) {
	t.Parallel()

	_, cfg := newFakeProvider(t, "")
	c := NewClient(cfg)

	u, err := url.Parse(c.AuthCodeURL("nonce-1"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "nonce-1", q.Get("state"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "public_repo,user:email", q.Get("scope"))
}

func TestExchangeAndIdentify(t *testing.T) {
	t.Parallel()

	_, cfg := newFakeProvider(t, "repo, user")
	c := NewClient(cfg)
	ctx := context.Background()

	token, err := c.Exchange(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "provider-token", token)

	id, err := c.Identify(ctx, token)
	require.NoError(t, err)
	assert.EqualValues(t, 101, id.GitHubID)
	assert.Equal(t, "octocat", id.Login)
	assert.Equal(t, []string{"repo", "user"}, id.Scopes)
}

func TestExchangeRejectsBadCode(t *testing.T) {
	t.Parallel()

	_, cfg := newFakeProvider(t, "")
	c := NewClient(cfg)

	_, err := c.Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrExchange)
}

func TestIdentifyRejectsBadToken(t *testing.T) {
	t.Parallel()

	_, cfg := newFakeProvider(t, "")
	c := NewClient(cfg)

	_, err := c.Identify(context.Background(), "wrong-token")
	assert.ErrorIs(t, err, ErrExchange)
}

func TestParseScopesHeader(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseScopesHeader(""))
	assert.Nil(t, parseScopesHeader("   "))
	assert.Equal(t, []string{"repo"}, parseScopesHeader("repo"))
	assert.Equal(t, []string{"repo", "user:email"}, parseScopesHeader("repo, user:email"))
	assert.Equal(t, []string{"a", "b"}, parseScopesHeader(" a ,b,"))
}
