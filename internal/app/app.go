// Package app wires configuration into a running tracker: storage backend,
// import guard, import pipeline, exporter and the tracker service. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"stationery/internal/config"
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/importer"
	"stationery/internal/domain/tracker"
	"stationery/internal/infrastructure/ai"
	"stationery/internal/infrastructure/export"
	"stationery/internal/infrastructure/export/pdf"
	"stationery/internal/infrastructure/export/xlsx"
	"stationery/internal/infrastructure/http/v1/handlers"
	"stationery/internal/infrastructure/pdftext"
	"stationery/internal/infrastructure/storage"
	"stationery/internal/infrastructure/storage/file"
	"stationery/internal/infrastructure/storage/memory"
	"stationery/internal/infrastructure/storage/postgres"
	redisstore "stationery/internal/infrastructure/storage/redis"
	"stationery/pkg/logger"
)

// App is a wired tracker. Close releases every backend.
type App struct {
	Config   *config.Config
	Service  *tracker.Service
	Exporter *export.Exporter
	Store    storage.Store

	closers []io.Closer
	log     *logger.Logger
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
}

// New connects the configured backends and loads the state.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (_ *App, err error) {
	if log == nil {
		log = logger.Nop()
	}
	a := &App{Config: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	codec, err := storage.NewCodec(cfg.Storage.CompressThreshold)
	if err != nil {
		return nil, err
	}

	var guard tracker.Guard = &tracker.LocalGuard{}
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		a.Store = memory.New()
	case config.DriverFile:
		a.Store, err = file.New(cfg.Storage.Dir, codec)
		if err != nil {
			return nil, err
		}
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
		if err != nil {
			return nil, err
		}
		pg := postgres.New(pool, codec)
		a.Store = pg
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
	case config.DriverRedis:
		rdb, err := redisstore.NewClient(ctx, redisstore.Options{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.Store = redisstore.New(rdb, codec, cfg.Redis.Prefix)
		guard = redisstore.NewLockGuard(rdb, cfg.Redis.Prefix+cfg.Redis.LockKey, cfg.Redis.LockTTL, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	a.closers = append(a.closers, a.Store)

	cat := catalog.New(cfg.Catalog.Items, cfg.Catalog.Campuses)

	var structurer importer.Structurer
	if cfg.AIEnabled() {
		g, err := ai.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cat, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, g)
		structurer = g
	} else {
		log.Info("GEMINI_API_KEY not set, PDF import is disabled")
	}
	pipeline := importer.NewPipeline(pdftext.New(log), structurer, nil, log)

	var archive export.Archiver
	if cfg.ArchiveEnabled() {
		arc, err := export.NewArchive(ctx, export.ArchiveConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
			Prefix:    cfg.MinIO.Prefix,
		}, log)
		if err != nil {
			return nil, err
		}
		archive = arc
	}
	a.Exporter = export.NewExporter(map[export.Format]export.Renderer{
		export.FormatPDF:  pdf.Render,
		export.FormatXLSX: xlsx.Render,
	}, archive, log)

	a.Service, err = tracker.NewService(ctx, tracker.Config{
		Repo:     storage.NewRepository(a.Store, log),
		Catalog:  cat,
		Importer: pipeline,
		Guard:    guard,
		Notify: func(ctx context.Context, msg string) {
			log.WithContext(ctx).Infow("alert", "message", msg)
		},
		Logger: log,
	})
	if err != nil {
		return nil, err
	}

	log.Infow("tracker ready",
		"storage", cfg.Storage.Driver,
		"pdf_import", cfg.AIEnabled(),
		"archive", cfg.ArchiveEnabled(),
	)
	return a, nil
}

// HealthChecks returns the dependencies /health/ready pings.
func (a *App) HealthChecks() map[string]handlers.Pinger {
	return map[string]handlers.Pinger{"storage": a.Store}
}

// Close releases backends in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
