// Package service implements the handshake state machine: state issuance and
// consumption, redirect validation, provider exchange, scope policy, account
// resolution and internal token minting.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/craftci/gatekeeper/internal/auth/domain"
	"github.com/craftci/gatekeeper/internal/auth/store"
	"github.com/craftci/gatekeeper/pkg/cryptox"
	"github.com/craftci/gatekeeper/pkg/idx"
)

var (
	// ErrStateMismatch covers never-issued, replayed and expired states
	// alike. The message is part of the API contract.
	ErrStateMismatch = errors.New("state mismatch")

	// ErrMissingCode means the callback arrived without an authorization
	// code. Rejected before any state is consumed.
	ErrMissingCode = errors.New("missing authorization code")

	// ErrMissingToken means a token-exchange request carried no provider
	// token.
	ErrMissingToken = errors.New("missing external token")

	// ErrNotRecognized is the generic provider-side rejection. The message
	// is part of the API contract.
	ErrNotRecognized = errors.New("not a recognized user")
)

// IdentityProvider is the upstream OAuth provider as the orchestrator sees
// it. github.Client implements it; tests substitute fakes.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	Identify(ctx context.Context, accessToken string) (domain.GrantedIdentity, error)
}

// CallbackResult is a successful handshake outcome. Exactly one of the two
// fields is set: RedirectTo for the browser flow (no token in the URL),
// AccessToken for the API flow.
type CallbackResult struct {
	AccessToken string
	RedirectTo  string
}

// Handshake orchestrates the authorize/callback round trip.
type Handshake struct {
	Store    store.Store
	Provider IdentityProvider
	Tokens   *TokenService
	Logger   *slog.Logger

	RequiredScopes        []string
	ScopeEquivalents      map[string]string
	AllowedRedirectHosts  []string
	InsufficientAccessURL string
	StateTTL              time.Duration
}

const defaultStateTTL = 30 * time.Minute

// Authorize mints a single-use state nonce, persists it (keyed by its
// fingerprint, alongside the optional redirect target) and returns the
// provider authorize URL to send the client to.
func (h *Handshake) Authorize(ctx context.Context, redirectTarget string) (string, error) {
	nonce, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return "", fmt.Errorf("mint state nonce: %w", err)
	}

	ttl := h.StateTTL
	if ttl <= 0 {
		ttl = defaultStateTTL
	}

	now := time.Now().UTC()
	err = h.Store.HandshakeStates().CreateHandshakeState(ctx, domain.HandshakeState{
		NonceHash:      cryptox.FingerprintToken(nonce),
		RedirectTarget: redirectTarget,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
	})
	if err != nil {
		return "", fmt.Errorf("store handshake state: %w", err)
	}

	return h.Provider.AuthCodeURL(nonce), nil
}

// Callback drives the handshake to a terminal state. Rejections come out as
// the sentinel errors above; scope insufficiency and success come out as a
// CallbackResult. Side effects (account create, token record) happen only on
// the success path.
func (h *Handshake) Callback(ctx context.Context, code, state string) (CallbackResult, error) {
	if code == "" {
		return CallbackResult{}, ErrMissingCode
	}

	hs, err := h.Store.HandshakeStates().ConsumeHandshakeState(ctx, cryptox.FingerprintToken(state))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return CallbackResult{}, ErrStateMismatch
		}
		return CallbackResult{}, fmt.Errorf("consume handshake state: %w", err)
	}

	// Validate the stored target before any network call. A bad target is
	// terminal, never a fallback to a default.
	target, err := ValidateRedirectTarget(hs.RedirectTarget, h.AllowedRedirectHosts)
	if err != nil {
		h.Logger.Warn("rejected redirect target on callback")
		return CallbackResult{}, err
	}

	providerToken, err := h.Provider.Exchange(ctx, code)
	if err != nil {
		h.Logger.Warn("code exchange failed", "error", err)
		return CallbackResult{}, ErrNotRecognized
	}

	identity, err := h.Provider.Identify(ctx, providerToken)
	if err != nil {
		h.Logger.Warn("identity fetch failed", "error", err)
		return CallbackResult{}, ErrNotRecognized
	}

	if !ScopesSufficient(identity.Scopes, h.RequiredScopes, h.ScopeEquivalents) {
		return CallbackResult{RedirectTo: h.insufficientAccessURL(ctx, identity)}, nil
	}

	token, err := h.completeHandshake(ctx, identity)
	if err != nil {
		return CallbackResult{}, err
	}

	if target != "" {
		return CallbackResult{RedirectTo: target}, nil
	}
	return CallbackResult{AccessToken: token}, nil
}

// TokenExchange is the non-browser variant: the caller already holds a
// provider token and trades it directly for an internal one. Scope
// insufficiency here is a rejection, not a redirect.
func (h *Handshake) TokenExchange(ctx context.Context, externalToken string) (string, error) {
	if externalToken == "" {
		return "", ErrMissingToken
	}

	identity, err := h.Provider.Identify(ctx, externalToken)
	if err != nil {
		h.Logger.Warn("token exchange identity fetch failed", "error", err)
		return "", ErrNotRecognized
	}

	if !ScopesSufficient(identity.Scopes, h.RequiredScopes, h.ScopeEquivalents) {
		return "", ErrNotRecognized
	}

	return h.completeHandshake(ctx, identity)
}

// completeHandshake resolves or creates the account and mints an internal
// token, atomically.
func (h *Handshake) completeHandshake(ctx context.Context, identity domain.GrantedIdentity) (string, error) {
	var token string

	err := h.Store.WithTx(ctx, func(tx store.Tx) error {
		account, err := tx.Accounts().GetAccountByGitHubID(ctx, identity.GitHubID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			account = domain.Account{
				ID:        idx.New().String(),
				GitHubID:  identity.GitHubID,
				Login:     identity.Login,
				Name:      identity.Name,
				AvatarURL: identity.AvatarURL,
				CreatedAt: time.Now().UTC(),
				UpdatedAt: time.Now().UTC(),
			}
			if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("create account: %w", err)
			}
			h.Logger.Info("account created", "account_id", account.ID, "login", account.Login)
		case err != nil:
			return fmt.Errorf("resolve account: %w", err)
		default:
			if err := tx.Accounts().UpdateAccountProfile(ctx, account.ID,
				identity.Login, identity.Name, identity.AvatarURL); err != nil {
				return fmt.Errorf("refresh account profile: %w", err)
			}
			account.Login = identity.Login
			account.Name = identity.Name
		}

		token, err = h.Tokens.Mint(ctx, tx, account)
		if err != nil {
			return fmt.Errorf("mint token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// insufficientAccessURL appends the existing-user fragment when the identity
// already maps to an account, so the page can tailor its message. The lookup
// never creates an account.
func (h *Handshake) insufficientAccessURL(ctx context.Context, identity domain.GrantedIdentity) string {
	u := h.InsufficientAccessURL

	_, err := h.Store.Accounts().GetAccountByGitHubID(ctx, identity.GitHubID)
	switch {
	case err == nil:
		return u + "#existing-user"
	case errors.Is(err, store.ErrNotFound):
		return u
	default:
		h.Logger.Error("account lookup failed during insufficient-scope redirect", "error", err)
		return u
	}
}
