package domain

import "time"

// HandshakeState is a pending CSRF nonce issued at /authorize and consumed
// exactly once at /callback. Only the nonce fingerprint is stored.
type HandshakeState struct {
	NonceHash      string
	RedirectTarget string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

// GrantedIdentity is what the provider tells us about the user after a
// successful code exchange: the profile plus the scopes actually granted.
type GrantedIdentity struct {
	GitHubID  int64
	Login     string
	Name      string
	AvatarURL string
	Scopes    []string
}
