// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CourseBid Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/coursebid/coursebid/internal/access"
	"github.com/coursebid/coursebid/internal/config"
	"github.com/coursebid/coursebid/internal/identity"
	idpostgres "github.com/coursebid/coursebid/internal/identity/postgres"
	"github.com/coursebid/coursebid/internal/logging"
	"github.com/coursebid/coursebid/internal/observability"
	"github.com/coursebid/coursebid/internal/session"
	sessredis "github.com/coursebid/coursebid/internal/session/redis"
	"github.com/coursebid/coursebid/internal/store"
	"github.com/coursebid/coursebid/internal/web"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the identity service",
		Long: `Start the HTTP identity service: account signup, login, logout,
and session-gated account access, plus a metrics server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, cmd *cobra.Command) error {
	logging.SetDefault("coursebid", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting identity service",
		"listen_addr", cfg.ListenAddr,
		"metrics_addr", cfg.MetricsAddr,
		"log_format", cfg.LogFormat,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool, err := store.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := autoMigrate(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	accounts := idpostgres.NewAccountRepository(pool)

	registry, err := identity.NewRegistry(accounts)
	if err != nil {
		return err
	}
	verifier, err := identity.NewVerifier(accounts)
	if err != nil {
		return err
	}

	tokens, closeTokens, err := newTokenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeTokens()

	var opts []session.Option
	if cfg.SessionTTL > 0 {
		opts = append(opts, session.WithTTL(cfg.SessionTTL))
	}
	sessions, err := session.NewManager(tokens, opts...)
	if err != nil {
		return err
	}

	gate := access.NewGate(sessions, logger)

	obsServer := observability.NewServer(cfg.MetricsAddr, func() bool {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Second)
		defer pingCancel()
		return pool.Ping(pingCtx) == nil
	})
	obsErrCh, err := obsServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	logger.Info("observability server started", "addr", obsServer.Addr())

	webServer, err := web.NewServer(registry, verifier, accounts, sessions, gate, obsServer.Metrics(), logger)
	if err != nil {
		return err
	}
	webErrCh, err := webServer.Start(cfg.ListenAddr)
	if err != nil {
		stopServers(nil, obsServer, logger)
		return err
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")

	cmd.Println("Identity service started")
	logger.Info("identity service ready", "addr", webServer.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopServers(webServer, obsServer, logger)
	logger.Info("shutdown complete")
	return nil
}

// newTokenStore picks the session backend: redis when configured,
// in-process memory otherwise. The returned closer is a no-op for the
// memory store.
func newTokenStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (session.TokenStore, func(), error) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // ping error takes precedence
		return nil, nil, oops.Code("REDIS_CONNECT_FAILED").With("addr", cfg.RedisAddr).Wrap(err)
	}

	logger.Info("using redis session store", "addr", cfg.RedisAddr)
	closer := func() {
		if err := client.Close(); err != nil {
			logger.Warn("error closing redis client", "error", err)
		}
	}
	return sessredis.NewStore(client), closer, nil
}

func autoMigrate(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return err
	}
	logger.Info("schema migrations applied")
	return nil
}

func stopServers(webServer *web.Server, obsServer *observability.Server, logger *slog.Logger) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if webServer != nil {
		if err := webServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping web server", "error", err)
		}
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping observability server", "error", err)
	}
}

// monitorServerErrors cancels the context when a server reports a
// fatal error, so one failed listener takes the whole process through
// graceful shutdown. Exits when the channel closes or the context is
// cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
