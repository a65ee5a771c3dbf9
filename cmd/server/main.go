package main

import (
	"fmt"
	"log"

	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/config"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/database"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/handlers"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/ingest"
	"github.com/BOB-DSPM/DSPM-Compliance-show/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	if err := ingest.SeedIfNeeded(database.DB, cfg); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	handlers.Init(cfg)
	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
