package main

import (
	"log"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/bootstrap"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
