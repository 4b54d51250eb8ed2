// Command stationery is the operator CLI for the stationery tracker. It
// works on the same storage as the API server.
package main

import (
	"context"
	"fmt"
	"os"

	"stationery/internal/app"
	"stationery/internal/config"
)

func main() {
	c := &cli{open: openFromConfig}
	err := c.rootCmd().ExecuteContext(context.Background())
	if cerr := c.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openFromConfig wires the tracker from config.yaml, .env and the
// environment.
func openFromConfig(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.New(ctx, cfg, log)
}
