package jwtx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/craftci/gatekeeper/pkg/cryptox"
)

// KeyManager bundles the local signer with the verification side.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier
	KeySet   *KeySet
}

// NewKeyManager wires a signer loaded from PEM into a key set and verifier.
func NewKeyManager(kid string, pemKey []byte, issuer string) (*KeyManager, error) {
	signer, err := NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, err
	}
	if err := signer.Validate(); err != nil {
		return nil, err
	}

	keys := NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: register signer key: %w", err)
	}

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(keys, issuer),
		KeySet:   keys,
	}, nil
}

// NewEphemeralKeyManager generates a fresh Ed25519 key with a random kid.
// Tokens do not survive a restart, which is acceptable for development and
// single-instance deployments.
func NewEphemeralKeyManager(issuer string) (*KeyManager, error) {
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}

	var kidBytes [6]byte
	_, _ = rand.Read(kidBytes[:])
	kid := "eph-" + hex.EncodeToString(kidBytes[:])

	return NewKeyManager(kid, pemKey, issuer)
}
