package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/softysite/internal/config"
	"github.com/softysite/internal/db"
	"github.com/softysite/internal/handler"
	"github.com/softysite/internal/notify"
	"github.com/softysite/internal/router"
	"github.com/softysite/internal/service"
	"github.com/softysite/internal/session"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *RootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := opts.cfg
	gdb, err := opts.openStore()
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	seeded, err := db.SeedContent(gdb)
	if err != nil {
		return fmt.Errorf("seed content: %w", err)
	}
	if seeded > 0 {
		slog.Info("content seeded", "entries", seeded)
	}

	if err := db.EnsureUser(gdb, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	sessions := session.NewManager(cfg.SessionTTL)
	go sessions.Run(ctx, sweepInterval, func(removed int) {
		slog.Debug("expired sessions swept", "removed", removed, "active", sessions.Len())
	})

	api := handler.NewAPI(gdb, sessions, buildNotifier(cfg))
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(cfg, api),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.ListenAddr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildNotifier(cfg config.AppConfig) service.ContactNotifier {
	if !cfg.NotificationsEnabled() {
		return notify.Noop{}
	}

	n, err := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.NotifyEmailFrom, cfg.NotifyEmailTo)
	if err != nil {
		slog.Warn("contact notifications disabled", "error", err)
		return notify.Noop{}
	}
	return n
}
