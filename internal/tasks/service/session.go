package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/pkg/cryptox"
	"github.com/aussiebroadwan/tasktrack/pkg/idx"
	"github.com/aussiebroadwan/tasktrack/pkg/jwtx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
)

// RevocationList remembers access tokens revoked before they expire.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SessionService issues, rotates and revokes credentials. Access tokens are
// EdDSA JWTs carrying the actor; refresh tokens are opaque and only their
// fingerprint is stored.
type SessionService struct {
	Store      store.Store
	KeyManager *jwtx.KeyManager
	Revoked    RevocationList
	Clock      domain.Clock

	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RequireActive refuses logins from users that were never activated.
	RequireActive bool
}

// Login checks a username and password and opens a new session.
func (s *SessionService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	log := slogx.FromContext(ctx)
	denied := newError(ErrUnauthorized, MsgBadCredentials)

	var v ValidationError
	if username == "" {
		v.Add("username", msgRequired)
	}
	if password == "" {
		v.Add("password", msgRequired)
	}
	if err := v.Err(); err != nil {
		return domain.Session{}, err
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		log.Info("login failed", "reason", "unknown user")
		return domain.Session{}, denied
	}
	if err != nil {
		return domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Info("login failed", "reason", "bad password", "user_id", u.ID)
		return domain.Session{}, denied
	}
	if s.RequireActive && !u.IsActive {
		log.Info("login failed", "reason", "inactive", "user_id", u.ID)
		return domain.Session{}, denied
	}

	now := nowFrom(s.Clock)
	sessionID := idx.NewAt(now).String()

	access, err := s.signAccess(u, sessionID, now)
	if err != nil {
		return domain.Session{}, err
	}
	refresh, err := s.storeRefresh(ctx, s.Store, u.ID, sessionID, now)
	if err != nil {
		return domain.Session{}, err
	}

	log.Info("user logged in", "user_id", u.ID, "session_id", sessionID)
	return domain.Session{
		TokenPair: domain.TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: s.accessTTL()},
		User:      u.Actor(),
	}, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old one.
// Presenting a token that was already rotated away revokes every refresh
// token of its user, since one of the two holders is not the user.
func (s *SessionService) Refresh(ctx context.Context, refreshOpaque string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)
	invalid := newError(ErrUnauthorized, MsgRefreshInvalid)

	refreshOpaque = strings.TrimSpace(refreshOpaque)
	if refreshOpaque == "" {
		return domain.TokenPair{}, fieldError("refresh", msgRequired)
	}

	now := nowFrom(s.Clock)
	fp := cryptox.FingerprintToken(refreshOpaque)

	var (
		pair     domain.TokenPair
		replayed bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if errors.Is(err, store.ErrNotFound) {
			return invalid
		}
		if err != nil {
			return err
		}

		if rt.Revoked {
			// Commit the family revocation, then fail.
			replayed = true
			return tx.RefreshTokens().RevokeUserRefreshTokens(ctx, rt.UserID, now)
		}
		if !rt.Usable(now) {
			return invalid
		}

		u, err := tx.Users().GetUserByID(ctx, rt.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return invalid
		}
		if err != nil {
			return err
		}
		if s.RequireActive && !u.IsActive {
			return invalid
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp, now); err != nil {
			return err
		}
		refresh, err := s.storeRefresh(ctx, tx, u.ID, rt.SessionID, now)
		if err != nil {
			return err
		}
		access, err := s.signAccess(u, rt.SessionID, now)
		if err != nil {
			return err
		}

		pair = domain.TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresIn: s.accessTTL()}
		log.Info("refresh token rotated", "user_id", u.ID, "session_id", rt.SessionID)
		return nil
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	if replayed {
		log.Warn("revoked refresh token replayed, user sessions revoked")
		return domain.TokenPair{}, invalid
	}
	return pair, nil
}

// Logout revokes the caller's refresh token and the access token that
// authenticated the request. The refresh token must be live and belong to
// the caller; anything else is an invalid token, not an auth failure.
func (s *SessionService) Logout(ctx context.Context, claims jwtx.Claims, refreshOpaque string) error {
	log := slogx.FromContext(ctx)
	invalid := newError(ErrInvalidToken, MsgInvalidToken)

	refreshOpaque = strings.TrimSpace(refreshOpaque)
	if refreshOpaque == "" {
		return invalid
	}

	now := nowFrom(s.Clock)
	fp := cryptox.FingerprintToken(refreshOpaque)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if errors.Is(err, store.ErrNotFound) {
			return invalid
		}
		if err != nil {
			return err
		}
		if rt.UserID != claims.Subject || !rt.Usable(now) {
			return invalid
		}

		err = tx.RefreshTokens().RevokeRefreshToken(ctx, fp, now)
		if errors.Is(err, store.ErrNotFound) {
			return invalid
		}
		return err
	})
	if err != nil {
		return err
	}

	if s.Revoked != nil && claims.ID != "" {
		if err := s.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}

	log.Info("user logged out", "user_id", claims.Subject, "session_id", claims.SID)
	return nil
}

// IsRevoked reports whether the access token jti was revoked by a logout.
func (s *SessionService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.Revoked == nil {
		return false, nil
	}
	return s.Revoked.IsRevoked(ctx, jti)
}

func (s *SessionService) accessTTL() time.Duration {
	if s.AccessTTL <= 0 {
		return jwtx.DefaultAccessTokenTTL
	}
	return s.AccessTTL
}

func (s *SessionService) refreshTTL() time.Duration {
	if s.RefreshTTL <= 0 {
		return jwtx.DefaultRefreshTokenTTL
	}
	return s.RefreshTTL
}

func (s *SessionService) signAccess(u domain.User, sessionID string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,
		sessionID,
		u.Username,
		u.Role.String(),
		s.accessTTL(),
		s.Issuer,
		s.Audience,
		now,
	)
	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", errors.New("no signing key available")
	}
	return signer.Sign(claims)
}

func (s *SessionService) storeRefresh(
	ctx context.Context,
	st store.Store,
	userID, sessionID string,
	now time.Time,
) (string, error) {
	opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	rt := domain.RefreshToken{
		ID:        idx.NewAt(now).String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(opaque),
		SessionID: sessionID,
		ExpiresAt: now.Add(s.refreshTTL()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return "", err
	}
	return opaque, nil
}

// ActorFromClaims rebuilds the calling actor from verified access token
// claims.
func ActorFromClaims(c jwtx.Claims) (domain.Actor, error) {
	role, err := domain.ParseRole(c.Role)
	if err != nil || c.Subject == "" {
		return domain.Actor{}, newError(ErrUnauthorized, "Given token not valid for any token type")
	}
	return domain.Actor{ID: c.Subject, Username: c.Username, Role: role}, nil
}
