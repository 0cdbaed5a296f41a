package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and hand out
// one repository per table so a transaction can expose the same surface.
type Store interface {
	Users() Users
	Tasks() Tasks
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn only use tx, never the outer store.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u. A taken username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns users ordered by username. A nil role lists everyone.
	ListUsers(ctx context.Context, role *domain.Role) ([]domain.User, error)

	// SetUserActive flips is_active for username. ErrNotFound if no such user.
	SetUserActive(ctx context.Context, username string, active bool, now time.Time) error
}

// TaskFilter narrows a task listing. Nil fields do not filter.
type TaskFilter struct {
	DeveloperID *string
	IsDone      *bool
}

type Tasks interface {
	CreateTask(ctx context.Context, t domain.Task) error

	// GetTask returns the task with DeveloperUsername filled in.
	GetTask(ctx context.Context, id string) (domain.Task, error)

	// UpdateTask writes the mutable columns of t. ErrNotFound if t.ID is gone.
	UpdateTask(ctx context.Context, t domain.Task) error

	DeleteTask(ctx context.Context, id string) error

	// ListTasks returns one page, newest first, ties in insertion order.
	ListTasks(ctx context.Context, f TaskFilter, limit, offset int) ([]domain.Task, error)

	CountTasks(ctx context.Context, f TaskFilter) (int, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token whatever its state, so callers
	// can tell a replayed token from an unknown one.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1. ErrNotFound if no live token has
	// that hash.
	RevokeRefreshToken(ctx context.Context, hash string, now time.Time) error

	// RevokeUserRefreshTokens revokes every live token of userID.
	RevokeUserRefreshTokens(ctx context.Context, userID string, now time.Time) error

	// DeleteExpiredRefreshTokens removes tokens that expired before now.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
