package main

// Apply database migrations:
//   go run ./cmd/migrate
// Print the applied schema version without migrating:
//   go run ./cmd/migrate -status

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/config"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/db"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	statusOnly := flag.Bool("status", false, "print the applied schema version and exit")
	flag.Parse()

	ctx := context.Background()
	sqlDB, err := db.Connect(ctx, config.Load().DatabaseURL, db.MigratePool().FromEnv())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	if *statusOnly {
		version, err := db.MigrationVersion(ctx, sqlDB)
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		log.Printf("schema version %d", version)
		return nil
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := db.MigrationVersion(ctx, sqlDB)
	if err != nil {
		log.Printf("migrations applied, version unknown: %v", err)
		return nil
	}
	log.Printf("migrations applied, schema version %d", version)
	return nil
}
