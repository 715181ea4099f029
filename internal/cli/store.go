package cli

import (
	"errors"
	"fmt"

	"github.com/softysite/internal/db"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			fmt.Fprintf(cmd.OutOrStdout(), "database %s migrated\n", opts.cfg.DatabasePath)
			return nil
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default site content when the content table is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			n, err := db.SeedContent(gdb)
			if err != nil {
				return fmt.Errorf("seed content: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "content already present, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d content entries\n", n)
			return nil
		},
	}
}

// UserOptions holds flags for the user create command.
type UserOptions struct {
	*RootOptions
	Username string
	Password string
}

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account with a bcrypt password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := opts.openStore()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			user, err := db.CreateUser(gdb, opts.Username, opts.Password)
			if err != nil {
				if errors.Is(err, db.ErrUserExists) {
					return fmt.Errorf("user %q already exists", opts.Username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s created (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "login name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "plain password, stored as a bcrypt hash")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
