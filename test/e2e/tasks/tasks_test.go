//go:build e2e

package tasks_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tasktrack/pkg/tasksdk"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	client := setupContainer(t)

	live, err := client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.Readyz(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	jwks, err := client.JWKS(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, jwks.Keys)
}

func TestRoleRules(t *testing.T) {
	client := setupContainer(t)
	ctx := t.Context()

	lead := signupAndLogin(t, client, "lead", tasksdk.RoleLead)
	alice := signupAndLogin(t, client, "alice", tasksdk.RoleDeveloper)
	bob := signupAndLogin(t, client, "bob", tasksdk.RoleDeveloper)

	_, err := lead.CreateTask(ctx, tasksdk.CreateTaskRequest{Title: tasksdk.Some("nope")})
	requireAPIError(t, err, http.StatusForbidden, "Leads cannot create tasks")

	task, err := alice.CreateTask(ctx, tasksdk.CreateTaskRequest{
		Title:     tasksdk.Some("alice's"),
		Developer: tasksdk.RawValue(bob.User().ID),
	})
	require.NoError(t, err)
	require.Equal(t, alice.User().ID, *task.Developer)

	_, err = bob.GetTask(ctx, task.ID)
	requireAPIError(t, err, http.StatusForbidden, "Access denied")

	_, err = bob.GetTask(ctx, "01JNOTATASK000000000000000")
	requireAPIError(t, err, http.StatusNotFound, "Task not found")

	got, err := lead.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, task, got)
}

func TestCompletionAndPagination(t *testing.T) {
	client := setupContainer(t)
	ctx := t.Context()
	dev := signupAndLogin(t, client, "dev", tasksdk.RoleDeveloper)

	var first *tasksdk.Task
	for i := range 15 {
		task, err := dev.CreateTask(ctx, tasksdk.CreateTaskRequest{Title: tasksdk.Some(fmt.Sprintf("task %d", i))})
		require.NoError(t, err)
		if first == nil {
			first = task
		}
	}

	done, err := dev.UpdateTask(ctx, first.ID, tasksdk.UpdateTaskRequest{IsDone: tasksdk.Some(true)})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	undone, err := dev.UpdateTask(ctx, first.ID, tasksdk.UpdateTaskRequest{IsDone: tasksdk.Some(false)})
	require.NoError(t, err)
	require.Nil(t, undone.CompletedAt)

	page, err := dev.ListTasks(ctx, tasksdk.ListTasksParams{})
	require.NoError(t, err)
	require.Equal(t, 15, page.Count)
	require.Len(t, page.Results, 10)
	require.NotNil(t, page.Next)
	require.Nil(t, page.Previous)

	next, err := dev.ListTasksURL(ctx, *page.Next)
	require.NoError(t, err)
	require.Len(t, next.Results, 5)
	require.Equal(t, first.ID, next.Results[4].ID)
}

func TestLogout(t *testing.T) {
	client := setupContainer(t)
	ctx := t.Context()
	dev := signupAndLogin(t, client, "dev", tasksdk.RoleDeveloper)

	_, err := dev.LogoutWith(ctx, "bogus")
	requireAPIError(t, err, http.StatusBadRequest, "Invalid token")

	require.NoError(t, dev.Logout(ctx))

	_, err = dev.ListTasks(ctx, tasksdk.ListTasksParams{})
	var apiErr *tasksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
