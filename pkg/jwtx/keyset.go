package jwtx

import (
	"crypto/ed25519"
	"errors"
	"slices"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

type publishedKey struct {
	jwk JWK
	pub ed25519.PublicKey
}

// KeySet is the published verification keys, in insertion order. It is
// read by the verifier and the JWKS endpoint concurrently with writes.
type KeySet struct {
	mu   sync.RWMutex
	keys []publishedKey
}

func NewKeySet() *KeySet { return &KeySet{} }

func (k *KeySet) AddSigner(s Signer) error { return k.AddJWK(s.PublicJWK()) }

// AddJWK publishes j, replacing any key with the same kid.
func (k *KeySet) AddJWK(j JWK) error {
	pub, err := j.PublicKey()
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	entry := publishedKey{jwk: j, pub: pub}
	if i := k.index(j.Kid); i >= 0 {
		k.keys[i] = entry
		return nil
	}
	k.keys = append(k.keys, entry)
	return nil
}

// Remove unpublishes kid. Tokens it signed no longer verify.
func (k *KeySet) Remove(kid string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = slices.DeleteFunc(k.keys, func(p publishedKey) bool { return p.jwk.Kid == kid })
}

func (k *KeySet) index(kid string) int {
	return slices.IndexFunc(k.keys, func(p publishedKey) bool { return p.jwk.Kid == kid })
}

// Get returns the ed25519.PublicKey for kid, typed for jwt.Keyfunc.
func (k *KeySet) Get(kid string) (any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if i := k.index(kid); i >= 0 {
		return k.keys[i].pub, nil
	}
	return nil, ErrNoKey
}

func (k *KeySet) PublicJWKS() JWKS {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := JWKS{Keys: make([]JWK, 0, len(k.keys))}
	for _, p := range k.keys {
		out.Keys = append(out.Keys, p.jwk)
	}
	return out
}

func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys) > 0
}
