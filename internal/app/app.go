// Package app is the composition root: it builds the storage backends and
// services from config so the HTTP server and the CLI commands share one
// wiring.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tbourn/cleancity-backend/internal/assistant"
	"github.com/tbourn/cleancity-backend/internal/auth"
	"github.com/tbourn/cleancity-backend/internal/config"
	"github.com/tbourn/cleancity-backend/internal/http/handlers"
	"github.com/tbourn/cleancity-backend/internal/municipal"
	"github.com/tbourn/cleancity-backend/internal/repo"
	"github.com/tbourn/cleancity-backend/internal/services"
)

// MaxPromptRunes caps assistant free text.
const MaxPromptRunes = 2000

// App holds every long-lived dependency.
type App struct {
	DB     *gorm.DB
	Blobs  municipal.Blobs
	Store  *municipal.Store
	Tokens *auth.JWTManager

	Accounts  *services.AccountService
	Reports   *services.ReportService
	Board     *services.LeaderboardService
	Exporter  *services.ExportService
	Assistant *services.AssistantService

	closers []func() error
}

// NewBlobs returns the blob backend selected by cfg.Blob.Backend. The
// returned close func releases the Redis client, if any.
func NewBlobs(ctx context.Context, db *gorm.DB, cfg config.BlobConfig) (municipal.Blobs, func() error, error) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return repo.NewRedisBlobStore(client, "cleancity:"), client.Close, nil
	case "sqlite", "":
		return repo.NewSQLBlobStore(db), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// New wires services over an already-migrated db. pacer may be nil, in which
// case replies are delayed by cfg.Assistant.
func New(ctx context.Context, db *gorm.DB, cfg config.Config, pacer assistant.Pacer) (*App, error) {
	blobs, closeBlobs, err := NewBlobs(ctx, db, cfg.Blob)
	if err != nil {
		return nil, err
	}
	org, err := municipal.LoadOrgInfo(cfg.OrgDirectoryPath)
	if err != nil {
		_ = closeBlobs()
		return nil, err
	}
	if pacer == nil {
		pacer = assistant.RandomPacer{Min: cfg.Assistant.DelayMin, Max: cfg.Assistant.DelayMax}
	}

	store := municipal.NewStore(blobs,
		municipal.WithNamespace(cfg.Blob.Namespace),
		municipal.WithOrgInfo(org),
	)
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	ids := services.NewIDGenerator()

	a := &App{
		DB:     db,
		Blobs:  blobs,
		Store:  store,
		Tokens: tokens,
		Accounts: &services.AccountService{
			DB:        db,
			Tokens:    tokens,
			IDs:       ids,
			PublicURL: cfg.PublicURL,
		},
		Board:    &services.LeaderboardService{DB: db},
		Exporter: &services.ExportService{DB: db},
		Assistant: &services.AssistantService{
			DB:             db,
			Engine:         assistant.New(store),
			Blobs:          blobs,
			Pacer:          pacer,
			MaxPromptRunes: MaxPromptRunes,
		},
		closers: []func() error{closeBlobs},
	}
	a.Reports = &services.ReportService{
		DB:             db,
		Records:        store,
		IDs:            ids,
		Notifier:       a.Assistant,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
	return a, nil
}

// Handlers returns the HTTP handler dependencies.
func (a *App) Handlers(maxPhotoBytes int64) handlers.Deps {
	return handlers.Deps{
		Accounts:      a.Accounts,
		Reports:       a.Reports,
		Board:         a.Board,
		Exporter:      a.Exporter,
		Assistant:     a.Assistant,
		Municipal:     a.Store,
		MaxPhotoBytes: maxPhotoBytes,
	}
}

// Seed loads the demo fixtures into an empty database.
func (a *App) Seed(ctx context.Context) (bool, error) {
	return services.SeedDemo(ctx, a.DB, a.Store)
}

// Close releases backend clients. The database is owned by the caller.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
