package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func login(t *testing.T, f *fixture, username string) domain.Session {
	t.Helper()
	s, err := f.sessions.Login(context.Background(), username, "password-"+username)
	require.NoError(t, err)
	return s
}

func verify(t *testing.T, f *fixture, token string) jwtx.Claims {
	t.Helper()
	c, err := f.keys.Verifier.Verify(token)
	require.NoError(t, err)
	return c
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dev := f.user(t, "dev", domain.RoleDeveloper)

	s := login(t, f, "dev")
	require.NotEmpty(t, s.AccessToken)
	require.NotEmpty(t, s.RefreshToken)
	require.Equal(t, dev, s.User)

	claims := verify(t, f, s.AccessToken)
	require.Equal(t, dev.ID, claims.Subject)
	require.Equal(t, "developer", claims.Role)
	require.Equal(t, "dev", claims.Username)
	require.NotEmpty(t, claims.SID)

	actor, err := service.ActorFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, dev, actor)

	_, err = f.sessions.Login(ctx, "dev", "wrong")
	requireKind(t, err, service.ErrUnauthorized, service.MsgBadCredentials)

	_, err = f.sessions.Login(ctx, "nobody", "whatever")
	requireKind(t, err, service.ErrUnauthorized, service.MsgBadCredentials)

	_, err = f.sessions.Login(ctx, "", "")
	requireKind(t, err, service.ErrValidation, "")
	requireFields(t, err, "username", "password")
}

func TestLoginRequireActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "dev", domain.RoleDeveloper)
	f.sessions.RequireActive = true

	_, err := f.sessions.Login(ctx, "dev", "password-dev")
	requireKind(t, err, service.ErrUnauthorized, service.MsgBadCredentials)

	require.NoError(t, f.users.Activate(ctx, "dev"))
	_, err = f.sessions.Login(ctx, "dev", "password-dev")
	require.NoError(t, err)
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "dev", domain.RoleDeveloper)
	s := login(t, f, "dev")

	pair, err := f.sessions.Refresh(ctx, s.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, s.RefreshToken, pair.RefreshToken)
	require.Equal(t, verify(t, f, s.AccessToken).SID, verify(t, f, pair.AccessToken).SID)

	// The rotated token is dead, and replaying it kills the family.
	_, err = f.sessions.Refresh(ctx, s.RefreshToken)
	requireKind(t, err, service.ErrUnauthorized, service.MsgRefreshInvalid)

	_, err = f.sessions.Refresh(ctx, pair.RefreshToken)
	requireKind(t, err, service.ErrUnauthorized, service.MsgRefreshInvalid)

	_, err = f.sessions.Refresh(ctx, "not-a-token")
	requireKind(t, err, service.ErrUnauthorized, service.MsgRefreshInvalid)

	_, err = f.sessions.Refresh(ctx, "  ")
	requireKind(t, err, service.ErrValidation, "")
	requireFields(t, err, "refresh")
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "alice", domain.RoleDeveloper)
	f.user(t, "bob", domain.RoleDeveloper)

	alice := login(t, f, "alice")
	bob := login(t, f, "bob")
	aliceClaims := verify(t, f, alice.AccessToken)

	t.Run("rejects tokens that are not the caller's live refresh token", func(t *testing.T) {
		for _, refresh := range []string{"", "garbage", bob.RefreshToken} {
			err := f.sessions.Logout(ctx, aliceClaims, refresh)
			requireKind(t, err, service.ErrInvalidToken, service.MsgInvalidToken)
		}
		revoked, err := f.sessions.IsRevoked(ctx, aliceClaims.ID)
		require.NoError(t, err)
		require.False(t, revoked)
	})

	t.Run("revokes both tokens", func(t *testing.T) {
		require.NoError(t, f.sessions.Logout(ctx, aliceClaims, alice.RefreshToken))

		revoked, err := f.sessions.IsRevoked(ctx, aliceClaims.ID)
		require.NoError(t, err)
		require.True(t, revoked)

		_, err = f.sessions.Refresh(ctx, alice.RefreshToken)
		requireKind(t, err, service.ErrUnauthorized, service.MsgRefreshInvalid)
	})

	t.Run("second logout is invalid", func(t *testing.T) {
		err := f.sessions.Logout(ctx, aliceClaims, alice.RefreshToken)
		requireKind(t, err, service.ErrInvalidToken, service.MsgInvalidToken)
	})

	// Bob's session is untouched.
	_, err := f.sessions.Refresh(ctx, bob.RefreshToken)
	require.NoError(t, err)
}

func TestActorFromClaims(t *testing.T) {
	_, err := service.ActorFromClaims(jwtx.Claims{Role: "admin"})
	require.ErrorIs(t, err, service.ErrUnauthorized)

	c := jwtx.NewAccessClaims("u1", "s1", "lead", "lead", 0, testIssuer, nil, domain.SystemClock{}.Now())
	actor, err := service.ActorFromClaims(c)
	require.NoError(t, err)
	require.True(t, actor.IsLead())
	require.Equal(t, "u1", actor.ID)
}
