package store

import (
	"context"
	"errors"

	"github.com/craftci/gatekeeper/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. Sub-repositories are exposed as methods to keep
// concerns tidy and stop callers accidentally nesting transactions.
type Store interface {
	Accounts() Accounts
	HandshakeStates() HandshakeStates
	AccessTokens() AccessTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Preferred over
	// Tx for multi-step operations (e.g. find-or-create plus token mint).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns an account by internal id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByGitHubID looks up the account bound to a provider identity.
	GetAccountByGitHubID(ctx context.Context, githubID int64) (domain.Account, error)

	// CreateAccount inserts a new account (id is provided by app via ULID).
	CreateAccount(ctx context.Context, a domain.Account) error

	// UpdateAccountProfile refreshes login, name and avatar from the
	// provider and bumps updated_at.
	UpdateAccountProfile(ctx context.Context, id, login, name, avatarURL string) error
}

type HandshakeStates interface {
	// CreateHandshakeState stores a pending nonce fingerprint.
	CreateHandshakeState(ctx context.Context, s domain.HandshakeState) error

	// ConsumeHandshakeState atomically deletes and returns an unexpired
	// state by nonce fingerprint. A second call with the same fingerprint
	// returns ErrNotFound, which makes replayed callbacks fail.
	ConsumeHandshakeState(ctx context.Context, nonceHash string) (domain.HandshakeState, error)

	// DeleteExpiredHandshakeStates is housekeeping for abandoned handshakes.
	DeleteExpiredHandshakeStates(ctx context.Context) error
}

type AccessTokens interface {
	// CreateAccessToken records a minted token by its jti fingerprint.
	CreateAccessToken(ctx context.Context, t domain.AccessToken) error

	// GetAccessTokenByJTIHash returns the record backing a presented token.
	GetAccessTokenByJTIHash(ctx context.Context, jtiHash string) (domain.AccessToken, error)

	// DeleteAccessToken revokes a single token record.
	DeleteAccessToken(ctx context.Context, id string) error

	// DeleteExpiredAccessTokens is housekeeping.
	DeleteExpiredAccessTokens(ctx context.Context) error
}
