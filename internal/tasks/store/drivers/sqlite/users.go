package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	var filter sql.NullString
	if role != nil {
		filter = sql.NullString{String: string(*role), Valid: true}
	}

	rows, err := r.q.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = mapUser(row)
	}
	return users, nil
}

func (r *usersRepo) SetUserActive(ctx context.Context, username string, active bool, now time.Time) error {
	return expectRow(r.q.SetUserActive(ctx, gen.SetUserActiveParams{
		IsActive:  active,
		UpdatedAt: now.UTC(),
		Username:  username,
	}))
}
