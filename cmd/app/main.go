package main

import (
	"flag"
	"log"
	"os"

	"HashClock/internal/di"
	"HashClock/pkg/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path (empty uses defaults and env only)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s providers=%v cache=%s archive=%s", cfg.Environment, cfg.Astro.Providers, cfg.Cache.Type, cfg.Archive.Backend)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	err = app.Run()
	cleanup()
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
