package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store/drivers/sqlite/gen"
)

var errNestedTx = errors.New("sqlite: nested transactions are not supported")

// repos hands out repositories bound to one query runner, either the pool
// or an open transaction.
type repos struct{ q *gen.Queries }

func (r repos) Users() store.Users                 { return &usersRepo{q: r.q} }
func (r repos) Tasks() store.Tasks                 { return &tasksRepo{q: r.q} }
func (r repos) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: r.q} }

type txStore struct {
	repos
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// The pool belongs to the parent Store.
func (t *txStore) Close() error                         { return nil }
func (t *txStore) Ping(context.Context) error           { return nil }
func (t *txStore) ApplyMigrations() error               { return errNestedTx }
func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, errNestedTx }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return errNestedTx }

// Tx opens a transaction. The caller must Commit or Rollback it.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{repos: repos{q: s.q.WithTx(tx)}, tx: tx}, nil
}

// WithTx commits when fn succeeds and rolls back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) (err error) {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
