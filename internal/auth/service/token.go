package service

import (
	"context"
	"time"

	"github.com/craftci/gatekeeper/internal/auth/domain"
	"github.com/craftci/gatekeeper/internal/auth/store"
	"github.com/craftci/gatekeeper/pkg/cryptox"
	"github.com/craftci/gatekeeper/pkg/idx"
	"github.com/craftci/gatekeeper/pkg/jwtx"
)

// TokenService mints internal access tokens for accounts. Each token is a
// signed JWT plus a persisted record keyed by the jti fingerprint, so tokens
// can be checked, revoked, and reaped.
type TokenService struct {
	Signer jwtx.Signer
	Store  store.Store
	Issuer string
	TTL    time.Duration
}

// Mint signs a token for the account and records it. When tx is non-nil the
// record is written through it so token creation commits atomically with the
// surrounding account work.
func (s *TokenService) Mint(ctx context.Context, tx store.Tx, account domain.Account) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	now := time.Now().UTC()
	claims := jwtx.NewAccessClaims(account.ID, account.Login, account.Name, ttl, s.Issuer, now)

	signed, err := s.Signer.Sign(claims)
	if err != nil {
		return "", err
	}

	record := domain.AccessToken{
		ID:        idx.New().String(),
		AccountID: account.ID,
		JTIHash:   cryptox.FingerprintToken(claims.ID),
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: now,
	}

	tokens := s.Store.AccessTokens()
	if tx != nil {
		tokens = tx.AccessTokens()
	}
	if err := tokens.CreateAccessToken(ctx, record); err != nil {
		return "", err
	}

	return signed, nil
}

// Lookup returns the persisted record for a verified token's jti claim.
// Missing or expired records mean the token has been revoked or reaped.
func (s *TokenService) Lookup(ctx context.Context, jti string) (domain.AccessToken, error) {
	rec, err := s.Store.AccessTokens().GetAccessTokenByJTIHash(ctx, cryptox.FingerprintToken(jti))
	if err != nil {
		return domain.AccessToken{}, err
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		return domain.AccessToken{}, store.ErrNotFound
	}
	return rec, nil
}
