// Command cleancity runs the CleanCity backend.
//
//	cleancity serve            # HTTP API (default)
//	cleancity seed             # load demo data into an empty database
//	cleancity export --out f   # write a JSON snapshot of users and reports
//
// @title                      CleanCity API
// @version                    1.0
// @description                Garbage reporting, municipal records, leaderboard, and assistant.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @securityDefinitions.apikey AdminKey
// @in                         header
// @name                       X-Admin-Key
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/app"
	"github.com/tbourn/cleancity-backend/internal/config"
	httpapi "github.com/tbourn/cleancity-backend/internal/http"
	"github.com/tbourn/cleancity-backend/internal/observability"
	"github.com/tbourn/cleancity-backend/internal/repo"
	"github.com/tbourn/cleancity-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "cleancity",
		Short:         "CleanCity garbage-reporting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env is normal outside development.
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runServe(cmd.Context()) },
	}
	root.RunE = serve.RunE

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of users and reports",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runExport(cmd.Context(), out) },
	}
	export.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users and reports into an empty database",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runSeed(cmd.Context()) },
	}

	root.AddCommand(serve, export, seed, &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cleancity %s\n", appVersion())
		},
	})
	return root
}

func appVersion() string {
	return sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
}

// setup loads config, configures logging, and opens the database and
// services. The returned cleanup closes both.
func setup(ctx context.Context) (config.Config, *app.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    sysutil.IsTruthy(os.Getenv("NO_COLOR")),
		})
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return cfg, nil, nil, fmt.Errorf("migrate: %w", err)
	}

	a, err := app.New(ctx, db, cfg, nil)
	if err != nil {
		closeDB(db)
		return cfg, nil, nil, err
	}
	cleanup := func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("close backends")
		}
		closeDB(db)
	}
	return cfg, a, cleanup, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, a, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	if cfg.Auth.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET is the development default; set it before exposing the server")
	}
	if cfg.Auth.AdminKey == "" {
		log.Info().Msg("ADMIN_KEY unset; admin routes are disabled")
	}
	if cfg.SeedDemoData {
		if _, err := a.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, a, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion()).
			Str("blob_backend", cfg.Blob.Backend).
			Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func runSeed(ctx context.Context) error {
	_, a, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	loaded, err := a.Seed(ctx)
	if err != nil {
		return err
	}
	if !loaded {
		log.Info().Msg("database already has users; seed skipped")
	}
	return nil
}

func runExport(ctx context.Context, out string) (err error) {
	_, a, cleanup, err := setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var w io.Writer = os.Stdout
	if out != "-" && out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	if err := a.Exporter.WriteJSON(ctx, w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if out != "-" && out != "" {
		log.Info().Str("path", out).Msg("snapshot written")
	}
	return nil
}
