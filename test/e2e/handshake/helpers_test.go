package handshake_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craftci/gatekeeper/internal/auth/github"
	httpapi "github.com/craftci/gatekeeper/internal/auth/http"
	"github.com/craftci/gatekeeper/internal/auth/service"
	"github.com/craftci/gatekeeper/internal/auth/store"
	"github.com/craftci/gatekeeper/internal/auth/store/drivers/sqlite"
	"github.com/craftci/gatekeeper/pkg/jwtx"
	"github.com/craftci/gatekeeper/pkg/slogx"
)

const (
	testGitHubID  = int64(583231)
	testLogin     = "octocat"
	testName      = "The Octocat"
	insufficient  = "https://app.craft-ci.test/insufficient-access"
	allowedTarget = "https://good.example/?x=1"
)

// fakeGitHub emulates the provider over real HTTP: the form-encoded token
// endpoint and the user resource with the X-OAuth-Scopes header.
type fakeGitHub struct {
	srv    *httptest.Server
	scopes string
}

func newFakeGitHub(t *testing.T, scopes string) *fakeGitHub {
	t.Helper()

	f := &fakeGitHub{scopes: scopes}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("code") != "good-code" {
			w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
			_, _ = w.Write([]byte("error=bad_verification_code"))
			return
		}
		w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
		_, _ = w.Write([]byte("access_token=gho_testtoken&token_type=bearer"))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token gho_testtoken" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("X-OAuth-Scopes", f.scopes)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         testGitHubID,
			"login":      testLogin,
			"name":       testName,
			"avatar_url": "https://avatars.test/u/583231",
		})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

// setupService wires a full in-process service against the fake provider and
// returns its base URL plus the backing store for assertions.
func setupService(t *testing.T, providerScopes string) (string, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return setupServiceWithStore(t, st, providerScopes), st
}

// setupServiceWithStore spins up a service instance over an existing store,
// for tests that need two instances sharing accounts.
func setupServiceWithStore(t *testing.T, st store.Store, providerScopes string) string {
	t.Helper()

	provider := newFakeGitHub(t, providerScopes)

	km, err := jwtx.NewEphemeralKeyManager("gatekeeper-test")
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer: km.Signer,
		Store:  st,
		Issuer: "gatekeeper-test",
		TTL:    time.Hour,
	}

	ghClient := github.NewClient(github.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		AuthURL:      provider.srv.URL + "/login/oauth/authorize",
		TokenURL:     provider.srv.URL + "/login/oauth/access_token",
		APIBaseURL:   provider.srv.URL,
		RedirectURL:  "https://api.craft-ci.test/callback",
		Scopes:       []string{"public_repo", "user:email"},
	})

	router := httpapi.NewRouter(km.KeySet, km.Verifier, "test", st, slogx.Discard())
	router.TokenService = tokens
	router.Handshake = &service.Handshake{
		Store:                 st,
		Provider:              ghClient,
		Tokens:                tokens,
		Logger:                slogx.Discard(),
		RequiredScopes:        []string{"public_repo", "user:email"},
		ScopeEquivalents:      map[string]string{"public_repo": "repo", "user:email": "user"},
		AllowedRedirectHosts:  []string{"good.example"},
		InsufficientAccessURL: insufficient,
		StateTTL:              time.Minute,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

// noRedirectClient returns redirects to the caller instead of following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// startHandshake hits /authorize and returns the state nonce the provider
// would round-trip back.
func startHandshake(t *testing.T, baseURL, redirectTarget string) string {
	t.Helper()

	authorizeURL := baseURL + "/authorize"
	if redirectTarget != "" {
		authorizeURL += "?redirect_target=" + url.QueryEscape(redirectTarget)
	}

	resp, err := noRedirectClient().Get(authorizeURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func getCallback(t *testing.T, baseURL, code, state string) (*http.Response, string) {
	t.Helper()

	callbackURL := baseURL + "/callback?"
	q := url.Values{}
	if code != "" {
		q.Set("code", code)
	}
	if state != "" {
		q.Set("state", state)
	}

	resp, err := noRedirectClient().Get(callbackURL + q.Encode())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}
