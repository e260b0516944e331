// Package github talks to the upstream OAuth provider: building authorize
// URLs, exchanging codes for provider tokens, and fetching the user profile
// with the scopes actually granted.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/craftci/gatekeeper/internal/auth/domain"
)

// ErrExchange wraps provider-side failures during the code exchange or the
// user fetch. Callers treat it as "the provider did not vouch for this user".
var ErrExchange = errors.New("github: exchange failed")

// Config holds the provider endpoints and app credentials. AuthURL, TokenURL
// and APIBaseURL are overridable so GitHub Enterprise installs (and tests)
// can point elsewhere.
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
	RedirectURL  string
	Scopes       []string
}

type Client struct {
	oauth   *oauth2.Config
	apiBase string
	scopes  []string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			Scopes: cfg.Scopes,
		},
		apiBase: strings.TrimRight(cfg.APIBaseURL, "/"),
		scopes:  cfg.Scopes,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL builds the provider authorize URL carrying our state nonce.
// GitHub wants scopes comma separated rather than the space-separated form
// oauth2 produces, so the scope parameter is overridden.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.SetAuthURLParam("scope", strings.Join(c.scopes, ",")))
}

// Exchange trades an authorization code for a provider access token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := c.oauth.Exchange(ctx, code,
		oauth2.SetAuthURLParam("scope", strings.Join(c.scopes, ",")))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExchange, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrExchange)
	}
	return tok.AccessToken, nil
}

// Identify fetches the user behind a provider token together with the scopes
// the grant actually carries, read from the X-OAuth-Scopes response header.
func (c *Client) Identify(ctx context.Context, accessToken string) (domain.GrantedIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/user?per_page=100", nil)
	if err != nil {
		return domain.GrantedIdentity{}, err
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.GrantedIdentity{}, fmt.Errorf("%w: %v", ErrExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GrantedIdentity{}, fmt.Errorf("%w: user fetch returned %d", ErrExchange, resp.StatusCode)
	}

	var body struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.GrantedIdentity{}, fmt.Errorf("%w: decode user: %v", ErrExchange, err)
	}

	return domain.GrantedIdentity{
		GitHubID:  body.ID,
		Login:     body.Login,
		Name:      body.Name,
		AvatarURL: body.AvatarURL,
		Scopes:    parseScopesHeader(resp.Header.Get("X-OAuth-Scopes")),
	}, nil
}

// parseScopesHeader splits GitHub's "repo, user:email" header form.
func parseScopesHeader(h string) []string {
	if strings.TrimSpace(h) == "" {
		return nil
	}
	parts := strings.Split(h, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
