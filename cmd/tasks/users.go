package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/app"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/domain"
	"github.com/aussiebroadwan/tasktrack/internal/tasks/service"
	"github.com/aussiebroadwan/tasktrack/pkg/cryptox"
	"github.com/aussiebroadwan/tasktrack/pkg/slogx"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")
		active, _ := cmd.Flags().GetBool("active")

		return withUsers(cmd.Context(), func(ctx context.Context, users *service.UserService) error {
			u, err := users.Signup(ctx, service.SignupInput{
				Username: username,
				Password: password,
				Role:     role,
				Active:   active,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", u)
			return nil
		})
	},
}

var usersActivateCmd = &cobra.Command{
	Use:   "activate <username>",
	Short: "Activate a user so they can log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(cmd.Context(), func(ctx context.Context, users *service.UserService) error {
			if err := users.Activate(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "activated %s\n", args[0])
			return nil
		})
	},
}

// withUsers opens the configured database and runs fn against it.
func withUsers(ctx context.Context, fn func(context.Context, *service.UserService) error) error {
	cfg := app.LoadConfig()
	cryptox.SetPepperPath(cfg.PepperFile)

	db, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx = slogx.WithContext(ctx, app.NewLogger(cfg))
	return fn(ctx, &service.UserService{Store: db, Clock: domain.SystemClock{}})
}

func init() {
	usersCreateCmd.Flags().String("username", "", "username")
	usersCreateCmd.Flags().String("password", "", "password")
	usersCreateCmd.Flags().String("role", "", "lead or developer")
	usersCreateCmd.Flags().Bool("active", false, "create the user already active")
	_ = usersCreateCmd.MarkFlagRequired("username")
	_ = usersCreateCmd.MarkFlagRequired("password")
	_ = usersCreateCmd.MarkFlagRequired("role")

	usersCmd.AddCommand(usersCreateCmd, usersActivateCmd)
	rootCmd.AddCommand(usersCmd)
}
