// Package main is the entry point for the stationery API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stationery/internal/app"
	"stationery/internal/config"
	v1 "stationery/internal/infrastructure/http/v1"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting stationery server", "env", cfg.App.Env, "storage", cfg.Storage.Driver)

	tracker, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize tracker", "error", err)
	}
	defer func() {
		if err := tracker.Close(); err != nil {
			log.Warnw("failed to close backends", "error", err)
		}
	}()

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Service:        tracker.Service,
		Exporter:       tracker.Exporter,
		Logger:         log,
		HealthChecks:   tracker.HealthChecks(),
		MaxUploadBytes: cfg.App.MaxUploadBytes,
		Debug:          cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Detached imports must finish within the shutdown window.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
