package main

import (
	"log"

	"github.com/kddeveloperhub/noteskart/internal/app"
	"github.com/kddeveloperhub/noteskart/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Log()

	a, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("App exited with error: %v", err)
	}
}
