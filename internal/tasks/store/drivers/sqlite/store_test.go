package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store/drivers/sqlite"
	"github.com/aussiebroadwan/tasktrack/pkg/idx"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, username string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	st := newStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))

	version, dirty, err := st.SchemaVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 1, version)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	bob := seedUser(t, st, "bob", domain.RoleDeveloper)
	seedUser(t, st, "alice", domain.RoleLead)
	seedUser(t, st, "Bob", domain.RoleDeveloper) // usernames are case-sensitive

	err := st.Users().CreateUser(ctx, domain.User{
		ID: idx.New().String(), Username: "bob", PasswordHash: "x",
		Role: domain.RoleLead, CreatedAt: t0, UpdatedAt: t0,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := st.Users().GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, bob.ID, got.ID)
	require.Equal(t, domain.RoleDeveloper, got.Role)
	require.False(t, got.IsActive)
	require.True(t, t0.Equal(got.CreatedAt))

	_, err = st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	all, err := st.Users().ListUsers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Bob", all[0].Username) // binary collation
	require.Equal(t, "alice", all[1].Username)
	require.Equal(t, "bob", all[2].Username)

	leads, err := st.Users().ListUsers(ctx, ptr(domain.RoleLead))
	require.NoError(t, err)
	require.Len(t, leads, 1)
	require.Equal(t, "alice", leads[0].Username)

	none, err := st.Users().ListUsers(ctx, ptr(domain.Role("admin")))
	require.NoError(t, err)
	require.Empty(t, none)

	require.NoError(t, st.Users().SetUserActive(ctx, "bob", true, t0.Add(time.Hour)))
	got, err = st.Users().GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
	require.ErrorIs(t, st.Users().SetUserActive(ctx, "nobody", true, t0), store.ErrNotFound)
}

func TestTasksRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	dev := seedUser(t, st, "dev", domain.RoleDeveloper)

	task := domain.Task{
		ID:          idx.New().String(),
		Title:       "write tests",
		Description: ptr("all of them"),
		DeveloperID: &dev.ID,
		CreatedAt:   t0,
		UpdatedAt:   t0,
	}
	require.NoError(t, st.Tasks().CreateTask(ctx, task))

	got, err := st.Tasks().GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, "write tests", got.Title)
	require.Equal(t, "all of them", *got.Description)
	require.Equal(t, dev.ID, *got.DeveloperID)
	require.Equal(t, "dev", *got.DeveloperUsername)
	require.Nil(t, got.CompletedAt)
	require.True(t, t0.Equal(got.CreatedAt))

	done := t0.Add(time.Minute)
	got.Apply(domain.TaskPatch{IsDone: ptr(true), SetDescription: true}, done)
	require.NoError(t, st.Tasks().UpdateTask(ctx, got))

	got, err = st.Tasks().GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, got.IsDone)
	require.Nil(t, got.Description)
	require.NotNil(t, got.CompletedAt)
	require.True(t, done.Equal(*got.CompletedAt))

	require.NoError(t, st.Tasks().DeleteTask(ctx, task.ID))
	_, err = st.Tasks().GetTask(ctx, task.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, st.Tasks().DeleteTask(ctx, task.ID), store.ErrNotFound)
	require.ErrorIs(t, st.Tasks().UpdateTask(ctx, got), store.ErrNotFound)
}

func TestTasksCompletionConstraint(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	// is_done without completed_at violates the table CHECK.
	err := st.Tasks().CreateTask(ctx, domain.Task{
		ID: idx.New().String(), Title: "bad", IsDone: true, CreatedAt: t0, UpdatedAt: t0,
	})
	require.Error(t, err)

	err = st.Tasks().CreateTask(ctx, domain.Task{
		ID: idx.New().String(), Title: "also bad", CompletedAt: &t0, CreatedAt: t0, UpdatedAt: t0,
	})
	require.Error(t, err)
}

func TestListTasksFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	alice := seedUser(t, st, "alice", domain.RoleDeveloper)
	bob := seedUser(t, st, "bob", domain.RoleDeveloper)

	mk := func(title string, owner *string, at time.Time, done bool) string {
		task := domain.Task{
			ID: idx.New().String(), Title: title, IsDone: done,
			DeveloperID: owner, CreatedAt: at, UpdatedAt: at,
		}
		task.SyncCompletion(at)
		require.NoError(t, st.Tasks().CreateTask(ctx, task))
		return task.ID
	}

	a1 := mk("a1", &alice.ID, t0, false)
	a2 := mk("a2", &alice.ID, t0.Add(time.Minute), true)
	a3 := mk("a3", &alice.ID, t0.Add(time.Minute), true) // same instant as a2
	b1 := mk("b1", &bob.ID, t0.Add(2*time.Minute), true)
	o1 := mk("orphan", nil, t0.Add(3*time.Minute), false)

	ids := func(ts []domain.Task) []string {
		out := make([]string, len(ts))
		for i, task := range ts {
			out[i] = task.ID
		}
		return out
	}

	tests := []struct {
		name string
		f    store.TaskFilter
		want []string
	}{
		{"all", store.TaskFilter{}, []string{o1, b1, a2, a3, a1}},
		{"developer", store.TaskFilter{DeveloperID: &alice.ID}, []string{a2, a3, a1}},
		{"done", store.TaskFilter{IsDone: ptr(true)}, []string{b1, a2, a3}},
		{"open", store.TaskFilter{IsDone: ptr(false)}, []string{o1, a1}},
		{"developer and done", store.TaskFilter{DeveloperID: &alice.ID, IsDone: ptr(true)}, []string{a2, a3}},
		{"unknown developer", store.TaskFilter{DeveloperID: ptr("nobody")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.Tasks().ListTasks(ctx, tt.f, 100, 0)
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(got))

			n, err := st.Tasks().CountTasks(ctx, tt.f)
			require.NoError(t, err)
			require.Equal(t, len(tt.want), n)
		})
	}

	page, err := st.Tasks().ListTasks(ctx, store.TaskFilter{}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []string{a2, a3}, ids(page))

	page, err = st.Tasks().ListTasks(ctx, store.TaskFilter{}, 10, 50)
	require.NoError(t, err)
	require.Empty(t, page)

	orphan, err := st.Tasks().GetTask(ctx, o1)
	require.NoError(t, err)
	require.Nil(t, orphan.DeveloperID)
	require.Nil(t, orphan.DeveloperUsername)
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	u := seedUser(t, st, "dev", domain.RoleDeveloper)

	mk := func(hash string, expires time.Time) {
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID: idx.New().String(), UserID: u.ID, TokenHash: hash, SessionID: "s1",
			ExpiresAt: expires, CreatedAt: t0, UpdatedAt: t0,
		}))
	}
	mk("h1", t0.Add(time.Hour))
	mk("h2", t0.Add(time.Hour))
	mk("old", t0.Add(-time.Hour))

	rt, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, "h1")
	require.NoError(t, err)
	require.True(t, rt.Usable(t0))
	require.False(t, rt.Usable(t0.Add(2*time.Hour)))

	require.NoError(t, st.RefreshTokens().RevokeRefreshToken(ctx, "h1", t0))
	require.ErrorIs(t, st.RefreshTokens().RevokeRefreshToken(ctx, "h1", t0), store.ErrNotFound)
	require.ErrorIs(t, st.RefreshTokens().RevokeRefreshToken(ctx, "nope", t0), store.ErrNotFound)

	rt, err = st.RefreshTokens().GetRefreshTokenByHash(ctx, "h1")
	require.NoError(t, err)
	require.True(t, rt.Revoked)

	require.NoError(t, st.RefreshTokens().RevokeUserRefreshTokens(ctx, u.ID, t0))
	rt, err = st.RefreshTokens().GetRefreshTokenByHash(ctx, "h2")
	require.NoError(t, err)
	require.True(t, rt.Revoked)

	n, err := st.RefreshTokens().DeleteExpiredRefreshTokens(ctx, t0)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = st.RefreshTokens().GetRefreshTokenByHash(ctx, "old")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollback(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	dev := seedUser(t, st, "dev", domain.RoleDeveloper)

	id := idx.New().String()
	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Tasks().CreateTask(ctx, domain.Task{
			ID: id, Title: "doomed", DeveloperID: &dev.ID, CreatedAt: t0, UpdatedAt: t0,
		}))
		return store.ErrNotFound
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Tasks().GetTask(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)

	tx, err := st.Tx(ctx)
	require.NoError(t, err)
	_, err = tx.Tx(ctx)
	require.Error(t, err)
	require.NoError(t, tx.Rollback())
}
