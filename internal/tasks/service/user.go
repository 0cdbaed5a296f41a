package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/store"
	"github.com/aussiebroadwan/tasktrack/pkg/cryptox"
	"github.com/aussiebroadwan/tasktrack/pkg/idx"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
)

const MaxUsernameLength = 150

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

type UserService struct {
	Store store.Store
	Clock domain.Clock
}

type SignupInput struct {
	Username string
	Password string
	Role     string

	// Active skips the activation step. Signup over HTTP never sets it.
	Active bool
}

// Signup validates and stores a new user.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (domain.User, error) {
	var v ValidationError

	switch {
	case in.Username == "":
		v.Add("username", msgRequired)
	case utf8.RuneCountInString(in.Username) > MaxUsernameLength:
		v.Add("username", "Ensure this field has no more than 150 characters.")
	case !usernamePattern.MatchString(in.Username):
		v.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if in.Password == "" {
		v.Add("password", msgRequired)
	}

	role, roleErr := domain.ParseRole(in.Role)
	switch {
	case in.Role == "":
		v.Add("role", msgRequired)
	case roleErr != nil:
		v.Add("role", fmt.Sprintf("%q is not a valid choice.", in.Role))
	}

	if err := v.Err(); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := nowFrom(s.Clock)
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     in.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, fieldError("username", MsgUsernameTaken)
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user signed up", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// List returns users ordered by username. An empty role lists everyone; a
// role that does not exist matches no one.
func (s *UserService) List(ctx context.Context, role string) ([]domain.User, error) {
	if role == "" {
		return s.Store.Users().ListUsers(ctx, nil)
	}
	r := domain.Role(role)
	return s.Store.Users().ListUsers(ctx, &r)
}

// Activate marks username active. It backs the CLI activation command.
func (s *UserService) Activate(ctx context.Context, username string) error {
	err := s.Store.Users().SetUserActive(ctx, username, true, nowFrom(s.Clock))
	if errors.Is(err, store.ErrNotFound) {
		return newError(ErrNotFound, fmt.Sprintf("user %q not found", username))
	}
	return err
}
