package sqlite

import (
	"context"
	"time"

	"github.com/craftci/gatekeeper/internal/auth/domain"
)

type accessTokensRepo struct {
	db querier
}

func (r *accessTokensRepo) CreateAccessToken(ctx context.Context, t domain.AccessToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO access_tokens (id, account_id, jti_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.JTIHash, t.ExpiresAt, t.CreatedAt)
	return mapConstraint(err)
}

func (r *accessTokensRepo) GetAccessTokenByJTIHash(ctx context.Context, jtiHash string) (domain.AccessToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, jti_hash, expires_at, created_at
		 FROM access_tokens WHERE jti_hash = ?`, jtiHash)

	var t domain.AccessToken
	if err := row.Scan(&t.ID, &t.AccountID, &t.JTIHash, &t.ExpiresAt, &t.CreatedAt); err != nil {
		return domain.AccessToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *accessTokensRepo) DeleteAccessToken(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE id = ?`, id)
	return err
}

func (r *accessTokensRepo) DeleteExpiredAccessTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM access_tokens WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
