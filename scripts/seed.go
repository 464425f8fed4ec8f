//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/greenloop/greenloop/internal/admin"
	"github.com/greenloop/greenloop/internal/database"
	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/pkg/config"
	"github.com/greenloop/greenloop/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create the admin account
	store := admin.NewCredentialStore(db, logger)

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "Admin123!"
	}
	if name == "" {
		name = "Admin"
	}

	err = store.Create(context.Background(), name, email, password)
	switch {
	case errors.Is(err, admin.ErrAdminExists):
		fmt.Println("Admin account already exists")
	case err != nil:
		log.Fatalf("failed to create admin account: %v", err)
	default:
		fmt.Printf("Admin account created: %s\n", email)
	}

	// Seed default drop-off locations
	locations := []string{
		"Main Campus",
		"Community Center",
		"Public Library",
		"Recycling Depot",
	}

	for _, loc := range locations {
		var existing models.Location
		result := db.Where("name = ?", loc).First(&existing)
		if result.Error == nil {
			continue
		}
		if err := db.Create(&models.Location{Name: loc, IsActive: true}).Error; err != nil {
			log.Fatalf("failed to seed location %q: %v", loc, err)
		}
		fmt.Printf("Location created: %s\n", loc)
	}
}
