package main

import (
	"context"
	"flag"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"plaintdraft-backend/config"
	"plaintdraft-backend/repository"
)

func main() {
	seed := flag.Bool("seed", true, "Insert the default legal provisions")
	flag.Parse()

	if !config.LoadDotEnv() {
		log.Println("Warning: No .env file found, using environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	skipped, err := repository.ApplySchema(ctx, pool)
	if err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	for _, t := range repository.Tables {
		log.Printf("✓ Table %s ready", t.Name)
	}
	for _, name := range skipped {
		log.Printf("Warning: Failed to create index %s", name)
	}

	if !*seed {
		return
	}

	provisions := repository.NewLegalProvisionRepository(pool)
	for _, p := range repository.DefaultProvisions() {
		if err := provisions.Upsert(ctx, &p); err != nil {
			log.Fatalf("Failed to seed %s: %v", p.Citation(), err)
		}
		log.Printf("✓ Seeded %s", p.Citation())
	}

	log.Println("✅ Schema created successfully")
}
