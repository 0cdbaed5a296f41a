package jwtx_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://tasks.example.test"

func newSigner(t *testing.T, kid string) jwtx.Signer {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewEdDSASigner(kid, key)
	require.NoError(t, err)
	return signer
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")
	require.Equal(t, jwtx.AlgorithmEdDSA, signer.PublicJWK().Alg)
	require.Equal(t, "k1", signer.KID())

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := jwtx.NewAccessClaims("user-1", "sid", "bob", "lead", time.Minute, testIssuer, nil, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := jwtx.NewEdDSAVerifier(keys, testIssuer, nil).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "lead", got.Role)
	require.Equal(t, claims.ID, got.ID)
}

func TestEdDSAVerifyFailures(t *testing.T) {
	signer := newSigner(t, "k1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewEdDSAVerifier(keys, testIssuer, nil)

	t.Run("expired", func(t *testing.T) {
		c := jwtx.NewAccessClaims("u", "s", "n", "lead", time.Minute, testIssuer, nil, time.Now().Add(-time.Hour))
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := jwtx.NewAccessClaims("u", "s", "n", "lead", time.Minute, "someone-else", nil, time.Now())
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("unknown kid", func(t *testing.T) {
		stranger := newSigner(t, "k2")
		tok, err := stranger.Sign(jwtx.NewAccessClaims("u", "s", "n", "lead", time.Minute, testIssuer, nil, time.Now()))
		require.NoError(t, err)
		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("removed key", func(t *testing.T) {
		tok, err := signer.Sign(jwtx.NewAccessClaims("u", "s", "n", "lead", time.Minute, testIssuer, nil, time.Now()))
		require.NoError(t, err)
		keys.Remove("k1")
		_, err = verifier.Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
		require.False(t, keys.IsReady())
	})
}

func TestJWKRoundTrip(t *testing.T) {
	jwk := newSigner(t, "k1").PublicJWK()
	require.Equal(t, "OKP", jwk.Kty)
	require.Equal(t, "Ed25519", jwk.Crv)
	require.Equal(t, "sig", jwk.Use)

	pub, err := jwk.PublicKey()
	require.NoError(t, err)
	require.Len(t, pub, ed25519.PublicKeySize)

	_, err = jwtx.JWK{Kty: "RSA"}.PublicKey()
	require.Error(t, err)
	_, err = jwtx.JWK{Kty: "OKP", Crv: "Ed25519", X: "c2hvcnQ"}.PublicKey()
	require.Error(t, err)
}

func TestKeySetReplacesSameKID(t *testing.T) {
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(newSigner(t, "k1")))
	require.NoError(t, keys.AddSigner(newSigner(t, "k1")))
	require.NoError(t, keys.AddSigner(newSigner(t, "k2")))

	jwks := keys.PublicJWKS()
	require.Len(t, jwks.Keys, 2)
	require.Equal(t, "k1", jwks.Keys[0].Kid)
	require.Equal(t, "k2", jwks.Keys[1].Kid)

	_, err := keys.Get("k3")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
}
