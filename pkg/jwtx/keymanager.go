package jwtx

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AlgorithmEdDSA = "EdDSA"

	defaultNumKeys = 2
	maxNumKeys     = 10
)

// KeyManager owns the in-memory signing keys of one process. Keys are
// generated at startup and never persisted, so a restart invalidates every
// outstanding access token. Refresh tokens are opaque and stored, so clients
// recover by refreshing.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	mu      sync.RWMutex
	signers []Signer
}

type KeyManagerOptions struct {
	// Issuer is stamped on and required of every token.
	Issuer string

	// Audience values required on verification. Empty disables the check.
	Audience []string

	// NumKeys is how many signing keys to generate; 0 means 2, capped at 10.
	NumKeys int
}

// NewEphemeralKeyManager generates opts.NumKeys Ed25519 keys and wires the
// matching verifier.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	n := opts.NumKeys
	if n <= 0 {
		n = defaultNumKeys
	}
	n = min(n, maxNumKeys)

	km := &KeyManager{KeySet: NewKeySet()}
	for i := range n {
		signer, err := GenerateEdDSASigner()
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate signer %d: %w", i+1, err)
		}
		if err := km.AddSigner(signer); err != nil {
			return nil, err
		}
	}
	km.Verifier = NewEdDSAVerifier(km.KeySet, opts.Issuer, opts.Audience)

	return km, nil
}

func (km *KeyManager) Algorithm() string { return jwt.SigningMethodEdDSA.Alg() }

func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }

// GetSigner picks one of the active signers at random.
func (km *KeyManager) GetSigner() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()

	switch len(km.signers) {
	case 0:
		return nil
	case 1:
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

func (km *KeyManager) NumSigners() int {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return len(km.signers)
}

// AddSigner makes signer available for both signing and verification.
func (km *KeyManager) AddSigner(signer Signer) error {
	if signer == nil {
		return fmt.Errorf("jwtx: signer cannot be nil")
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if err := km.KeySet.AddSigner(signer); err != nil {
		return fmt.Errorf("jwtx: add signer to keyset: %w", err)
	}
	km.signers = append(km.signers, signer)
	return nil
}
