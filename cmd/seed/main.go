package main

import (
	"context"
	"log"
	"os"
	"time"

	"kidvibe-be/internal/config"
	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/pkg/credentials"
	"kidvibe-be/internal/repository/unitofwork"
	"kidvibe-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const (
	defaultAdminEmail    = "admin@kidvibe.com"
	defaultAdminPassword = "admin123"
)

// Seeds the default admin account for local development.
func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOneByEmail(ctx, defaultAdminEmail)
	if err != nil {
		color.Red("Failed to check existing user: %v", err)
		os.Exit(1)
	}
	if existing != nil {
		color.Yellow("Default user already exists")
		return
	}

	creds := credentials.NewService(&cfg.Auth)
	hash, err := creds.HashPassword(defaultAdminPassword)
	if err != nil {
		color.Red("Failed to hash password: %v", err)
		os.Exit(1)
	}

	fullName := "Administrator"
	admin := entity.User{
		Id:           uuid.New(),
		Email:        defaultAdminEmail,
		Username:     "admin",
		FullName:     &fullName,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, &admin); err != nil {
		color.Red("Failed to create default user: %v", err)
		os.Exit(1)
	}

	color.Green("Default user created")
	color.Green("Email: %s", defaultAdminEmail)
	color.Green("Password: %s", defaultAdminPassword)
}
