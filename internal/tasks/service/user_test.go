package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.Signup(ctx, service.SignupInput{Username: "alice", Password: "s3cret", Role: "developer"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, domain.RoleDeveloper, u.Role)
	require.False(t, u.IsActive)
	require.NotEqual(t, "s3cret", u.PasswordHash)

	stored, err := f.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", stored.Username)

	_, err = f.users.Signup(ctx, service.SignupInput{Username: "alice", Password: "other", Role: "lead"})
	requireKind(t, err, service.ErrValidation, "")
	requireFields(t, err, "username")

	// Usernames are case sensitive.
	_, err = f.users.Signup(ctx, service.SignupInput{Username: "Alice", Password: "other", Role: "lead"})
	require.NoError(t, err)
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name   string
		in     service.SignupInput
		fields []string
	}{
		{"empty", service.SignupInput{}, []string{"username", "password", "role"}},
		{"bad role", service.SignupInput{Username: "a", Password: "p", Role: "admin"}, []string{"role"}},
		{"role is case sensitive", service.SignupInput{Username: "a", Password: "p", Role: "Lead"}, []string{"role"}},
		{"spaces in username", service.SignupInput{Username: "a b", Password: "p", Role: "lead"}, []string{"username"}},
		{"long username", service.SignupInput{Username: strings.Repeat("a", 151), Password: "p", Role: "lead"}, []string{"username"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.Signup(ctx, tt.in)
			requireKind(t, err, service.ErrValidation, "")
			requireFields(t, err, tt.fields...)
		})
	}

	var v *service.ValidationError
	_, err := f.users.Signup(ctx, service.SignupInput{Username: "a", Password: "p", Role: "admin"})
	require.ErrorAs(t, err, &v)
	require.Equal(t, []string{`"admin" is not a valid choice.`}, v.Fields["role"])

	_, err = f.users.Signup(ctx, service.SignupInput{Username: "a.b@c+d-e_f", Password: "p", Role: "lead"})
	require.NoError(t, err)
}

func TestListAndActivateUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "bob", domain.RoleDeveloper)
	f.user(t, "alice", domain.RoleDeveloper)
	f.user(t, "carol", domain.RoleLead)

	names := func(role string) []string {
		t.Helper()
		users, err := f.users.List(ctx, role)
		require.NoError(t, err)
		out := make([]string, len(users))
		for i, u := range users {
			out[i] = u.Username
		}
		return out
	}

	require.Equal(t, []string{"alice", "bob", "carol"}, names(""))
	require.Equal(t, []string{"alice", "bob"}, names("developer"))
	require.Equal(t, []string{"carol"}, names("lead"))
	require.Empty(t, names("admin"))

	require.NoError(t, f.users.Activate(ctx, "bob"))
	users, err := f.users.List(ctx, "developer")
	require.NoError(t, err)
	require.False(t, users[0].IsActive)
	require.True(t, users[1].IsActive)

	requireKind(t, f.users.Activate(ctx, "nobody"), service.ErrNotFound, `user "nobody" not found`)
}
