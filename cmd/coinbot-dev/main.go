package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"coinbot/internal/app"
)

// Dev entrypoint: spins up a throwaway Postgres in a container, migrates it
// and runs the bot against it.
func main() {
	ctx := context.Background()

	log.Println("Starting Postgres testcontainer...")

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("coinbot"),
		postgres.WithUsername("coinbot"),
		postgres.WithPassword("devpassword"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Fatalf("Failed to start Postgres container: %v", err)
	}

	defer func() {
		log.Println("Stopping Postgres container...")
		if err := postgresContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate container: %v", err)
		}
	}()

	dsn, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Failed to get connection string: %v", err)
	}
	log.Printf("Postgres started: %s", dsn)

	if err := runMigrations(dsn); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied")

	os.Setenv("STORAGE_BACKEND", "postgres")
	os.Setenv("POSTGRES_DSN", dsn)
	os.Setenv("WEBHOOK_MODE", "false")

	if os.Getenv("TELEGRAM_BOT_TOKEN") == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set. Please set it in your .env file or environment.")
	}
	if os.Getenv("OWNER_ID") == "" {
		log.Println("OWNER_ID not set. Please set it in your .env file or environment.")
	}

	log.Println("Starting application with Postgres backend...")

	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- application.Run()
	}()

	select {
	case <-sigChan:
		log.Println("Received shutdown signal")
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Application error: %v", err)
		}
	}
}

func runMigrations(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "./migrations")
}
