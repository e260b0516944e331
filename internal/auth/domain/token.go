package domain

import "time"

// AccessToken records a minted internal token. The token itself is a JWT and
// never stored; JTIHash fingerprints its jti claim so tokens can be revoked
// and expired records reaped.
type AccessToken struct {
	ID        string
	AccountID string
	JTIHash   string
	ExpiresAt time.Time
	CreatedAt time.Time
}
