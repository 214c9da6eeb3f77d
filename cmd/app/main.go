package main

import (
	"flag"
	"fmt"
	"os"

	"TickerPulse/internal/di"
	"TickerPulse/pkg/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tickerpulse:", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	// Blocks until SIGINT/SIGTERM.
	return app.Run()
}
