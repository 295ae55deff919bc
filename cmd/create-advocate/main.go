package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"plaintdraft-backend/auth"
	"plaintdraft-backend/config"
	"plaintdraft-backend/repository"
)

func main() {
	email := flag.String("email", "test@example.com", "Advocate email")
	password := flag.String("password", "testpassword123", "Advocate password")
	name := flag.String("name", "Test Advocate", "Advocate name")
	enrolment := flag.String("enrolment", "KAR/0000/2020", "Bar council enrolment number")
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

	repo := repository.NewAdvocateRepository(pool)
	svc := auth.NewService(repo, cfg.JWTSecret)

	advocate, err := svc.Register(ctx, auth.RegisterRequest{
		Email:           *email,
		Password:        *password,
		Name:            *name,
		EnrolmentNumber: *enrolment,
	})
	if errors.Is(err, auth.ErrEmailTaken) {
		existing, err := repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(*email)))
		if err == nil {
			log.Printf("Advocate with email %s already exists (ID: %s)", existing.Email, existing.ID)
		}
		return
	}
	if err != nil {
		log.Fatalf("Failed to create advocate: %v", err)
	}

	fmt.Printf("✅ Test advocate created successfully!\n")
	fmt.Printf("   ID: %s\n", advocate.ID)
	fmt.Printf("   Email: %s\n", advocate.Email)
	fmt.Printf("   Password: %s\n", *password)
	fmt.Printf("   Name: %s\n", advocate.Name)
}
