// Package domain holds the core records of the authorization service,
// independent of storage and transport.
package domain

import "time"

// Account is a platform user bootstrapped from a provider identity.
// GitHubID is the stable join key; login and name track the provider
// profile and are refreshed on each successful handshake.
type Account struct {
	ID        string
	GitHubID  int64
	Login     string
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
