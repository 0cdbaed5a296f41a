package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store/drivers/sqlite/gen"
)

type refreshTokensRepo struct {
	q *gen.Queries
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	err := r.q.CreateRefreshToken(ctx, gen.CreateRefreshTokenParams{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		SessionID: t.SessionID,
		ExpiresAt: t.ExpiresAt.UTC(),
		CreatedAt: t.CreatedAt.UTC(),
		UpdatedAt: t.UpdatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *refreshTokensRepo) GetRefreshTokenByHash(
	ctx context.Context,
	hash string,
) (domain.RefreshToken, error) {
	row, err := r.q.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return mapRefreshToken(row), nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, hash string, now time.Time) error {
	return expectRow(r.q.RevokeRefreshToken(ctx, gen.RevokeRefreshTokenParams{
		UpdatedAt: now.UTC(),
		TokenHash: hash,
	}))
}

func (r *refreshTokensRepo) RevokeUserRefreshTokens(ctx context.Context, userID string, now time.Time) error {
	return r.q.RevokeUserRefreshTokens(ctx, gen.RevokeUserRefreshTokensParams{
		UpdatedAt: now.UTC(),
		UserID:    userID,
	})
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredRefreshTokens(ctx, now.UTC())
}
