package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// JWK is a JSON Web Key as served from the JWKS endpoint. Only the fields
// needed for OKP (Ed25519) keys are modeled.
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`

	// OKP parameters (RFC 8037).
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
}

// JWKS is the standard key-set envelope.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewEd25519JWK builds a JWK from a raw Ed25519 public key.
func NewEd25519JWK(kid, use, alg string, pub ed25519.PublicKey) JWK {
	return JWK{
		Kty: "OKP",
		Kid: kid,
		Use: use,
		Alg: alg,
		Crv: "Ed25519",
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}
}

// PublicKey reconstructs the Ed25519 public key from an OKP JWK.
func (k JWK) PublicKey() (ed25519.PublicKey, error) {
	if k.Kty != "OKP" || k.Crv != "Ed25519" {
		return nil, fmt.Errorf("jwtx: unsupported key type %s/%s", k.Kty, k.Crv)
	}

	raw, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("jwtx: decode x parameter: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("jwtx: bad Ed25519 public key length %d", len(raw))
	}

	return ed25519.PublicKey(raw), nil
}
