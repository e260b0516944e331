package handshake_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craftci/gatekeeper/internal/auth/store"
	"github.com/craftci/gatekeeper/pkg/jwtx"
)

// TestHandshakeAPIFlow drives the full authorize -> callback round trip with
// no redirect target: the token comes back as JSON, and the state is burned.
func TestHandshakeAPIFlow(t *testing.T) {
	baseURL, st := setupService(t, "public_repo, user:email")

	state := startHandshake(t, baseURL, "")

	resp, body := getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &tok))
	require.NotEmpty(t, tok.AccessToken)

	account, err := st.Accounts().GetAccountByGitHubID(context.Background(), testGitHubID)
	require.NoError(t, err)
	require.Equal(t, testLogin, account.Login)

	// Replaying the state is a hard 400 with the contract body.
	resp, body = getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "state mismatch", body)
}

// TestHandshakeBrowserFlow verifies the redirect flow: the Location is
// exactly the requested target and carries no token.
func TestHandshakeBrowserFlow(t *testing.T) {
	baseURL, _ := setupService(t, "public_repo, user:email")

	state := startHandshake(t, baseURL, allowedTarget)

	resp, _ := getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.Equal(t, allowedTarget, loc)
	require.NotContains(t, loc, "access_token")
}

// TestHandshakeRejectsInjectedTarget: a target smuggling markup fails with
// 401 before the provider is ever contacted.
func TestHandshakeRejectsInjectedTarget(t *testing.T) {
	baseURL, _ := setupService(t, "public_repo, user:email")

	state := startHandshake(t, baseURL, "https://evil.example/<sCrIpt%20src=x>")

	resp, body := getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "target URI not allowed", body)
	// The offending value is never reflected.
	require.NotContains(t, body, "evil.example")
}

// TestHandshakeInsufficientScopes: a grant of only "user" against required
// {public_repo, user:email} redirects to the insufficient-access page and
// creates no account.
func TestHandshakeInsufficientScopes(t *testing.T) {
	baseURL, st := setupService(t, "user")

	state := startHandshake(t, baseURL, "")

	resp, _ := getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, insufficient, resp.Header.Get("Location"))

	_, err := st.Accounts().GetAccountByGitHubID(context.Background(), testGitHubID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

// TestHandshakeInsufficientScopesExistingAccount: the redirect gains the
// existing-user fragment when the identity is already known.
func TestHandshakeInsufficientScopesExistingAccount(t *testing.T) {
	baseURL, st := setupService(t, "public_repo, user:email")

	// First handshake with full scopes creates the account.
	state := startHandshake(t, baseURL, "")
	resp, _ := getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err := st.Accounts().GetAccountByGitHubID(context.Background(), testGitHubID)
	require.NoError(t, err)

	// Second service sharing the store but granting too little.
	baseURL2 := setupServiceWithStore(t, st, "user")
	state = startHandshake(t, baseURL2, "")
	resp, _ = getCallback(t, baseURL2, "good-code", state)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, insufficient+"#existing-user", resp.Header.Get("Location"))
}

// TestHandshakeMissingCode: callback without a code is a 422 and the state
// survives for a later, complete callback.
func TestHandshakeMissingCode(t *testing.T) {
	baseURL, _ := setupService(t, "public_repo, user:email")

	state := startHandshake(t, baseURL, "")

	resp, _ := getCallback(t, baseURL, "", state)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestWiderScopesSubsume: a grant of {repo, user} satisfies required
// {public_repo, user:email} through the equivalents policy.
func TestWiderScopesSubsume(t *testing.T) {
	baseURL, _ := setupService(t, "repo, user")

	state := startHandshake(t, baseURL, "")

	resp, body := getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "access_token")
}

// TestTokenExchangeEndToEnd trades a provider token directly and uses the
// minted internal token against /whoami.
func TestTokenExchangeEndToEnd(t *testing.T) {
	baseURL, _ := setupService(t, "public_repo, user:email")

	resp, err := http.Post(baseURL+"/token-exchange", "application/json",
		strings.NewReader(`{"external_token": "gho_testtoken"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	require.NotEmpty(t, tok.AccessToken)

	req, err := http.NewRequest(http.MethodGet, baseURL+"/whoami", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	whoResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer whoResp.Body.Close()
	require.Equal(t, http.StatusOK, whoResp.StatusCode)

	var who struct {
		Login    string `json:"login"`
		GitHubID int64  `json:"github_id"`
	}
	require.NoError(t, json.NewDecoder(whoResp.Body).Decode(&who))
	require.Equal(t, testLogin, who.Login)
	require.Equal(t, testGitHubID, who.GitHubID)
}

// TestTokenExchangeRejections covers the missing-token and bad-token cases.
func TestTokenExchangeRejections(t *testing.T) {
	baseURL, _ := setupService(t, "public_repo, user:email")

	resp, err := http.Post(baseURL+"/token-exchange", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = http.Post(baseURL+"/token-exchange", "application/json",
		strings.NewReader(`{"external_token": "gho_wrong"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// TestJWKSVerifiesMintedTokens: the published JWKS can verify a token the
// service just issued.
func TestJWKSVerifiesMintedTokens(t *testing.T) {
	baseURL, _ := setupService(t, "public_repo, user:email")

	state := startHandshake(t, baseURL, "")
	resp, body := getCallback(t, baseURL, "good-code", state)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &tok))

	jwksResp, err := http.Get(baseURL + "/.well-known/jwks.json")
	require.NoError(t, err)
	defer jwksResp.Body.Close()

	var set jwtx.JWKS
	require.NoError(t, json.NewDecoder(jwksResp.Body).Decode(&set))
	require.Len(t, set.Keys, 1)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddJWK(set.Keys[0]))

	claims, err := jwtx.NewVerifierEdDSA(keys, "gatekeeper-test").Verify(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, testLogin, claims.Login)
	require.NotEmpty(t, claims.Subject)
}
