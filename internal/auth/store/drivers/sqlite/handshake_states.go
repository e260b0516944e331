package sqlite

import (
	"context"
	"time"

	"github.com/craftci/gatekeeper/internal/auth/domain"
)

type handshakeStatesRepo struct {
	db querier
}

func (r *handshakeStatesRepo) CreateHandshakeState(ctx context.Context, s domain.HandshakeState) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO handshake_states (nonce_hash, redirect_target, expires_at, created_at)
		 VALUES (?, ?, ?, ?)`,
		s.NonceHash, s.RedirectTarget, s.ExpiresAt, s.CreatedAt)
	return mapConstraint(err)
}

// ConsumeHandshakeState deletes the row and returns it in one statement, so
// concurrent callbacks with the same nonce race on the DELETE and only one
// wins. Expired rows are treated as absent.
func (r *handshakeStatesRepo) ConsumeHandshakeState(ctx context.Context, nonceHash string) (domain.HandshakeState, error) {
	row := r.db.QueryRowContext(ctx,
		`DELETE FROM handshake_states
		 WHERE nonce_hash = ? AND expires_at > ?
		 RETURNING nonce_hash, redirect_target, expires_at, created_at`,
		nonceHash, time.Now().UTC())

	var s domain.HandshakeState
	if err := row.Scan(&s.NonceHash, &s.RedirectTarget, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return domain.HandshakeState{}, mapNotFound(err)
	}
	return s, nil
}

func (r *handshakeStatesRepo) DeleteExpiredHandshakeStates(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM handshake_states WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
