package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lead := f.user(t, "lead", domain.RoleLead)
	dev := f.user(t, "dev", domain.RoleDeveloper)

	t.Run("developer owns what they create", func(t *testing.T) {
		task, err := f.tasks.Create(ctx, dev, service.CreateTaskInput{
			Title:       tasksdk.Some("  ship it  "),
			Description: tasksdk.Some("before friday"),
		})
		require.NoError(t, err)
		require.Equal(t, "ship it", task.Title)
		require.Equal(t, "before friday", *task.Description)
		require.Equal(t, dev.ID, *task.DeveloperID)
		require.Equal(t, "dev", *task.DeveloperUsername)
		require.False(t, task.IsDone)
		require.Nil(t, task.CompletedAt)
		require.Equal(t, task.CreatedAt, task.UpdatedAt)
	})

	t.Run("created done gets a completion time", func(t *testing.T) {
		task, err := f.tasks.Create(ctx, dev, service.CreateTaskInput{
			Title:  tasksdk.Some("already done"),
			IsDone: tasksdk.Some(true),
		})
		require.NoError(t, err)
		require.True(t, task.IsDone)
		require.NotNil(t, task.CompletedAt)
	})

	t.Run("lead is refused before validation", func(t *testing.T) {
		_, err := f.tasks.Create(ctx, lead, service.CreateTaskInput{})
		requireKind(t, err, service.ErrForbidden, "Leads cannot create tasks")
	})

	tests := []struct {
		name   string
		in     service.CreateTaskInput
		fields []string
	}{
		{"missing title", service.CreateTaskInput{}, []string{"title"}},
		{"null title", service.CreateTaskInput{Title: tasksdk.Null[string]()}, []string{"title"}},
		{"blank title", service.CreateTaskInput{Title: tasksdk.Some("   ")}, []string{"title"}},
		{"long title", service.CreateTaskInput{Title: tasksdk.Some(strings.Repeat("x", 201))}, []string{"title"}},
		{"null is_done", service.CreateTaskInput{Title: tasksdk.Some("ok"), IsDone: tasksdk.Null[bool]()}, []string{"is_done"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.Create(ctx, dev, tt.in)
			requireKind(t, err, service.ErrValidation, "")
			requireFields(t, err, tt.fields...)
		})
	}

	_, err := f.tasks.Create(ctx, dev, service.CreateTaskInput{Title: tasksdk.Some(strings.Repeat("x", 200))})
	require.NoError(t, err)
}

func TestGetTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lead := f.user(t, "lead", domain.RoleLead)
	alice := f.user(t, "alice", domain.RoleDeveloper)
	bob := f.user(t, "bob", domain.RoleDeveloper)

	created, err := f.tasks.Create(ctx, alice, service.CreateTaskInput{
		Title:       tasksdk.Some("round trip"),
		Description: tasksdk.Some("details"),
	})
	require.NoError(t, err)

	got, err := f.tasks.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Title, got.Title)
	require.Equal(t, *created.Description, *got.Description)
	require.Equal(t, alice.ID, *got.DeveloperID)

	_, err = f.tasks.Get(ctx, lead, created.ID)
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, bob, created.ID)
	requireKind(t, err, service.ErrForbidden, "Access denied")

	// Missing ids are NotFound for everyone, never Forbidden.
	for _, actor := range []domain.Actor{lead, alice, bob} {
		_, err = f.tasks.Get(ctx, actor, "01JNOSUCHTASK0000000000000")
		requireKind(t, err, service.ErrNotFound, "Task not found")
	}
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lead := f.user(t, "lead", domain.RoleLead)
	alice := f.user(t, "alice", domain.RoleDeveloper)
	bob := f.user(t, "bob", domain.RoleDeveloper)

	task, err := f.tasks.Create(ctx, alice, service.CreateTaskInput{
		Title:       tasksdk.Some("original"),
		Description: tasksdk.Some("keep"),
	})
	require.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		got, err := f.tasks.Update(ctx, alice, task.ID, service.UpdateTaskInput{Title: tasksdk.Some("renamed")})
		require.NoError(t, err)
		require.Equal(t, "renamed", got.Title)
		require.Equal(t, "keep", *got.Description)
		require.False(t, got.IsDone)
		require.True(t, got.UpdatedAt.After(task.UpdatedAt))
		require.Equal(t, task.CreatedAt, got.CreatedAt)
	})

	t.Run("description can be cleared", func(t *testing.T) {
		got, err := f.tasks.Update(ctx, alice, task.ID, service.UpdateTaskInput{Description: tasksdk.Null[string]()})
		require.NoError(t, err)
		require.Nil(t, got.Description)
	})

	t.Run("denials", func(t *testing.T) {
		_, err := f.tasks.Update(ctx, lead, task.ID, service.UpdateTaskInput{Title: tasksdk.Some("x")})
		requireKind(t, err, service.ErrForbidden, "Leads cannot update tasks")

		_, err = f.tasks.Update(ctx, bob, task.ID, service.UpdateTaskInput{Title: tasksdk.Some("x")})
		requireKind(t, err, service.ErrForbidden, "Access denied")

		_, err = f.tasks.Update(ctx, lead, "missing", service.UpdateTaskInput{})
		requireKind(t, err, service.ErrNotFound, "Task not found")
	})

	t.Run("authorization before validation", func(t *testing.T) {
		_, err := f.tasks.Update(ctx, bob, task.ID, service.UpdateTaskInput{Title: tasksdk.Some("")})
		requireKind(t, err, service.ErrForbidden, "Access denied")
	})

	t.Run("validation", func(t *testing.T) {
		_, err := f.tasks.Update(ctx, alice, task.ID, service.UpdateTaskInput{
			Title:  tasksdk.Null[string](),
			IsDone: tasksdk.Null[bool](),
		})
		requireKind(t, err, service.ErrValidation, "")
		requireFields(t, err, "title", "is_done")

		got, err := f.tasks.Get(ctx, alice, task.ID)
		require.NoError(t, err)
		require.Equal(t, "renamed", got.Title, "failed update must not write")
	})
}

func TestCompletionTimestamp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dev := f.user(t, "dev", domain.RoleDeveloper)
	task := f.task(t, dev, "toggle me")

	set := func(done bool) domain.Task {
		t.Helper()
		got, err := f.tasks.Update(ctx, dev, task.ID, service.UpdateTaskInput{IsDone: tasksdk.Some(done)})
		require.NoError(t, err)
		require.Equal(t, done, got.CompletedAt != nil, "is_done and completed_at disagree")
		return got
	}

	first := set(true)
	require.NotNil(t, first.CompletedAt)

	// A redundant true keeps the first completion time.
	again := set(true)
	require.Equal(t, *first.CompletedAt, *again.CompletedAt)
	require.True(t, again.UpdatedAt.After(first.UpdatedAt))

	// Other edits on a done task keep it too.
	renamed, err := f.tasks.Update(ctx, dev, task.ID, service.UpdateTaskInput{Title: tasksdk.Some("done and renamed")})
	require.NoError(t, err)
	require.Equal(t, *first.CompletedAt, *renamed.CompletedAt)

	reopened := set(false)
	require.Nil(t, reopened.CompletedAt)

	redone := set(true)
	require.True(t, redone.CompletedAt.After(*first.CompletedAt))
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lead := f.user(t, "lead", domain.RoleLead)
	alice := f.user(t, "alice", domain.RoleDeveloper)
	bob := f.user(t, "bob", domain.RoleDeveloper)
	task := f.task(t, alice, "doomed")

	requireKind(t, f.tasks.Delete(ctx, lead, task.ID), service.ErrForbidden, "Leads cannot delete tasks")
	requireKind(t, f.tasks.Delete(ctx, bob, task.ID), service.ErrForbidden, "Access denied")

	require.NoError(t, f.tasks.Delete(ctx, alice, task.ID))

	requireKind(t, f.tasks.Delete(ctx, alice, task.ID), service.ErrNotFound, "Task not found")
	_, err := f.tasks.Get(ctx, lead, task.ID)
	requireKind(t, err, service.ErrNotFound, "Task not found")
}
