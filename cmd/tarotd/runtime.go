package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/randomtoy/tarot-studio/internal/adapters/decks"
	"github.com/randomtoy/tarot-studio/internal/adapters/kv/memory"
	"github.com/randomtoy/tarot-studio/internal/adapters/kv/sqlite"
	"github.com/randomtoy/tarot-studio/internal/app"
	"github.com/randomtoy/tarot-studio/internal/config"
	"github.com/randomtoy/tarot-studio/internal/ports"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int   { return rand.IntN(n) }
func (stdRNG) Float64() float64 { return rand.Float64() }

// runtime holds the wired services shared by every command.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  *decks.EmbeddedStore
	drawing  *app.DrawingService
	engine   *app.ReadingEngine
	storage  *app.StorageService
	settings *app.SettingsService
	tarot    *app.TarotService

	close func() error
}

// newRuntime loads configuration and wires the services. Logs go to logOut.
func newRuntime(ctx context.Context, logOut io.Writer) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	catalog, err := decks.NewEmbeddedStore()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	kv, closeKV, err := openKV(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	storage := app.NewStorageService(ctx, kv, logger)
	settings := app.NewSettingsService(storage, logger,
		app.WithDefaultReversedProbability(cfg.Drawing.ReversedProbability))
	drawing := app.NewDrawingService(catalog, stdRNG{}, logger)
	engine := app.NewReadingEngine(logger)

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		catalog:  catalog,
		drawing:  drawing,
		engine:   engine,
		storage:  storage,
		settings: settings,
		tarot:    app.NewTarotService(catalog, drawing, engine, storage, settings, logger),
		close:    closeKV,
	}, nil
}

func openKV(ctx context.Context, cfg config.StorageConfig) (ports.KVStore, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewStore(cfg.QuotaBytes), func() error { return nil }, nil
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.Path, cfg.QuotaBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
