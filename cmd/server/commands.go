package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"route-vending/tablegrid/internal/api"
	"route-vending/tablegrid/internal/config"
	"route-vending/tablegrid/internal/db"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/metrics"
	"route-vending/tablegrid/internal/routes"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 20 * time.Second

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "tablegrid",
	Short:         "Route vending delivery table service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logging.Init(cfg.Server.Env); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		conns, err := db.Open(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer conns.Close()

		if err := conns.Migrate(); err != nil {
			return err
		}
		version, err := conns.MigrationVersion()
		if err != nil {
			return err
		}
		logging.Info("Migrations applied", "version", version)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert default columns and sample rows into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		conns, err := db.Open(cmd.Context(), cfg.DB)
		if err != nil {
			return err
		}
		defer conns.Close()

		if err := conns.Migrate(); err != nil {
			return err
		}
		return db.Seed(cmd.Context(), conns.ORM)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "path to a yaml config file (default "+config.DefaultConfigFile+" when present)")
	flags.String("server-port", "", "HTTP listen port")
	flags.String("server-env", "", "environment: development or production")
	flags.String("db-driver", "", "database driver: postgres or sqlite")
	flags.String("db-dsn", "", "database connection string")
	flags.String("cache-backend", "", "cache backend: memory or redis")
	flags.String("redis-addr", "", "redis address")

	serveCmd.Flags().Bool("server-seed-on-boot", false, "seed an empty database before serving")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func serve(ctx context.Context) error {
	logging.Info("Table grid starting up",
		"environment", cfg.Server.Env,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	conns, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conns.Close()

	if err := conns.Migrate(); err != nil {
		return err
	}
	if cfg.Server.SeedOnBoot {
		if err := db.Seed(ctx, conns.ORM); err != nil {
			return err
		}
	}

	metricsReg := metrics.NewMetricsRegistry()
	deps, err := api.InitDependencies(cfg, conns, metricsReg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Services.Cache.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           routes.RegisterRoutes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("HTTP shutdown failed", "error", err)
	}
	// let dispatched mutations reach the store before the pool closes
	if err := deps.Services.Coordinator.Drain(shutdownCtx); err != nil {
		logging.Warn("Pending mutations did not finish", "error", err)
	}
	return nil
}
