// Package cli wires the softy command line: the HTTP server plus store
// maintenance commands.
package cli

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/softysite/internal/config"
	"github.com/softysite/internal/db"
	"github.com/softysite/internal/logging"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabasePath string
	LogLevel     string

	cfg config.AppConfig
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "softy",
		Short:         "Softy Software site backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg = config.Load()
			if opts.DatabasePath != "" {
				opts.cfg.DatabasePath = opts.DatabasePath
			}
			if opts.LogLevel != "" {
				opts.cfg.LogLevel = opts.LogLevel
			}
			logging.Setup(opts.cfg.IsProduction(), opts.cfg.LogLevel)
			switch opts.cfg.GinMode {
			case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
				gin.SetMode(opts.cfg.GinMode)
			default:
				return fmt.Errorf("invalid GIN_MODE %q", opts.cfg.GinMode)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DatabasePath, "db", "", "SQLite database path (overrides DATABASE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}

func (o *RootOptions) openStore() (*gorm.DB, error) {
	gdb, err := db.Open(o.cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", o.cfg.DatabasePath, err)
	}
	return gdb, nil
}
