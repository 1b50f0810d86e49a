package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chinazagideon/mock-generator/internal/etl/sinks"
	"github.com/chinazagideon/mock-generator/internal/secret"
	"github.com/chinazagideon/mock-generator/internal/service"
	"github.com/chinazagideon/mock-generator/internal/storage"
)

// Version is stamped into the MCP server handshake.
const Version = "0.3.0"

// shutdownGrace bounds how long Close waits for running jobs.
const shutdownGrace = 30 * time.Second

// App owns the storage handle and the services built on it.
type App struct {
	cfg Config
	db  *storage.DB

	Generation *service.GenerationService
	Sinks      *service.SinkService
}

// Open initializes storage and services for cfg.
func Open(cfg Config) (*App, error) {
	db, err := storage.New(cfg.DBPath, cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	emitter := service.LogEmitter{}
	secretStore := secret.NewEnvStore()

	a := &App{
		cfg:        cfg,
		db:         db,
		Generation: service.NewGenerationService(storage.NewJobStore(db), secretStore, emitter),
		Sinks:      service.NewSinkService(storage.NewSinkConnectionStore(db), secretStore),
	}
	setupSinkAdapters(a)
	return a, nil
}

// Config returns the config the app was opened with.
func (a *App) Config() Config { return a.cfg }

// Close stops schedulers, waits for running jobs, and closes storage.
func (a *App) Close() error {
	a.Generation.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	a.Generation.WaitRunning(ctx)
	return a.db.Close()
}

// Serve runs scheduled and file-watched jobs until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	a.Generation.RestartWatchers(ctx)
	log.Println("[SCHEDULER] Serving triggered jobs, press Ctrl+C to stop")
	<-ctx.Done()
	log.Println("[SCHEDULER] Shutting down...")
	return nil
}

// ── Sink adapters ──────────────────────────────────────────
// The sinks package resolves saved connections through an interface to
// avoid importing the service layer.

func setupSinkAdapters(a *App) {
	sinks.SetConnectionResolver(a.Sinks)
}
