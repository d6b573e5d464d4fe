package main

import (
	"log"

	"github.com/bookforge/bookforge-api/internal/config"
	"github.com/bookforge/bookforge-api/internal/infrastructure/server"
)

func main() {
	log.Println("Starting BookForge API...")

	// Load Configuration
	cfg := config.Load()

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
