package jwtx

import (
	"crypto/ed25519"
	"sync"
)

// KeySet holds the public keys trusted for verification, indexed by kid.
// Safe for concurrent use.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey
	jwks map[string]JWK
}

func NewKeySet() *KeySet {
	return &KeySet{
		keys: make(map[string]ed25519.PublicKey),
		jwks: make(map[string]JWK),
	}
}

// AddSigner registers a local signer's public half.
func (ks *KeySet) AddSigner(s Signer) error {
	return ks.AddJWK(s.PublicJWK())
}

// AddJWK registers a public key from its JWK form.
func (ks *KeySet) AddJWK(jwk JWK) error {
	pub, err := jwk.PublicKey()
	if err != nil {
		return err
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.keys[jwk.Kid] = pub
	ks.jwks[jwk.Kid] = jwk
	return nil
}

// Get looks up a verification key by kid.
func (ks *KeySet) Get(kid string) (ed25519.PublicKey, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	pub, ok := ks.keys[kid]
	return pub, ok
}

// PublicJWKS snapshots the set for the JWKS endpoint.
func (ks *KeySet) PublicJWKS() JWKS {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	out := JWKS{Keys: make([]JWK, 0, len(ks.jwks))}
	for _, jwk := range ks.jwks {
		out.Keys = append(out.Keys, jwk)
	}
	return out
}

// IsReady reports whether at least one key is registered.
func (ks *KeySet) IsReady() bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.keys) > 0
}
