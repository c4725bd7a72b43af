package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotesync/internal/adapters/http"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/handlers"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and run the sync scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	a, err := newApplication(ctx, opts, os.Stdout)
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	a.logger.Info("starting quotesync",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", a.cfg.App.Environment),
		slog.String("profile", opts.profile),
	)

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(a.health, buildInfo, a.metrics)

	server := http.New(&a.cfg.Server, a.logger)
	http.SetupRouter(server.Engine(),
		http.NewDefaultRouterConfig(a.logger, a.cfg.Telemetry.ServiceName, a.service, healthHandler))

	serverErr := server.Start()

	if a.cfg.Sync.Enabled {
		if err := a.engine.Start(ctx); err != nil {
			return fmt.Errorf("starting sync scheduler: %w", err)
		}
	} else {
		a.logger.Info("sync scheduler disabled")
	}

	return waitForShutdown(ctx, a, server, serverErr, a.cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or the server
// fails, then stops the scheduler and drains the server.
func waitForShutdown(
	ctx context.Context,
	a *application,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}

		return nil

	case sig := <-quit:
		a.logger.Info("received shutdown signal", slog.String("signal", sig.String()))

	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	a.logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// No new syncs once requests stop being accepted.
	a.engine.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.logger.Info("shutdown complete")

	return nil
}
