// Package main provides the wheel binary: a full-screen terminal fortune
// wheel with a hidden admin mode.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wheel/internal/clock"
	"github.com/cory-johannsen/wheel/internal/config"
	"github.com/cory-johannsen/wheel/internal/frontend/audio"
	"github.com/cory-johannsen/wheel/internal/frontend/tui"
	"github.com/cory-johannsen/wheel/internal/game/admin"
	"github.com/cory-johannsen/wheel/internal/game/command"
	"github.com/cory-johannsen/wheel/internal/game/entry"
	"github.com/cory-johannsen/wheel/internal/game/wheel"
	"github.com/cory-johannsen/wheel/internal/observability"
	"github.com/cory-johannsen/wheel/internal/random"
	"github.com/cory-johannsen/wheel/internal/server"
	"github.com/cory-johannsen/wheel/internal/storage"
	"github.com/cory-johannsen/wheel/internal/storage/file"
	"github.com/cory-johannsen/wheel/internal/storage/postgres"
)

const healthInterval = 30 * time.Second

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (empty = defaults and WHEEL_ environment)")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting wheel",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("randomness", cfg.Wheel.Randomness),
	)

	hash := cfg.Admin.PasswordHash
	if hash == "" {
		hash, err = admin.HashPassword(cfg.Admin.Password)
		if err != nil {
			logger.Fatal("hashing admin password", zap.Error(err))
		}
	}
	chord, err := admin.ParseChord(cfg.Admin.UnlockChord)
	if err != nil {
		logger.Fatal("parsing unlock chord", zap.Error(err))
	}

	lifecycle := server.NewLifecycle(logger)

	var kv storage.KV
	switch cfg.Storage.Backend {
	case "postgres":
		dbStart := time.Now()
		if err := postgres.MigrateUp(cfg.Database.DSN()); err != nil {
			logger.Fatal("migrating database", zap.Error(err))
		}
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		kv = postgres.NewKVRepository(pool.DB())
		lifecycle.Add("postgres", healthService(pool, logger))
	default:
		kv = file.NewStore(cfg.Storage.Path)
		logger.Info("using file storage", zap.String("path", cfg.Storage.Path))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatal("creating screen", zap.Error(err))
	}
	if err := screen.Init(); err != nil {
		logger.Fatal("initializing screen", zap.Error(err))
	}
	defer screen.Fini()

	var cues tui.Cues
	if cfg.Audio.Enabled {
		player := audio.NewPlayer(cfg.Audio.SampleRate)
		if err := player.Initialize(); err != nil {
			// Non-fatal, the wheel runs silently
			logger.Warn("audio initialization failed", zap.Error(err))
		} else {
			defer player.Close()
			cues = player
		}
	}

	queue := tui.NewQueue(64)
	app := wheel.New(wheel.Options{
		Store:         entry.NewStore(kv, cfg.Wheel.StorageKey, cfg.Wheel.DefaultEntries, logger),
		Gate:          admin.NewGate(hash, cfg.Wheel.SpinSeconds),
		Clock:         clock.Posting(clock.Real(), queue.Post),
		Source:        random.NewLogged(random.Named(cfg.Wheel.Randomness), logger.Named("random")),
		FullRotations: cfg.Wheel.FullRotations,
		Chord:         chord,
		TapCount:      cfg.Admin.TapCount,
		TapWindow:     cfg.Admin.TapWindow,
		Logger:        logger,
	})
	defer app.Close()

	loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := app.Load(loadCtx); err != nil {
		logger.Warn("using default entries", zap.Error(err))
	}
	cancel()

	shell := tui.New(screen, tui.Options{
		App:           app,
		Dispatcher:    command.NewDispatcher(command.DefaultRegistry(), app),
		Queue:         queue,
		Cues:          cues,
		FrameInterval: cfg.UI.FrameInterval,
		Logger:        logger,
	})
	lifecycle.Add("shell", shell)

	logger.Info("wheel initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("entries", len(app.Entries())),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("wheel error", zap.Error(err))
	}
}

// healthService pings the database periodically and closes the pool on stop.
func healthService(pool *postgres.Pool, logger *zap.Logger) server.Service {
	done := make(chan struct{})
	return &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(healthInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return nil
				case <-ticker.C:
					if err := pool.Health(context.Background(), 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			}
		},
		StopFn: func() {
			close(done)
			pool.Close()
		},
	}
}
