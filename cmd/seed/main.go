package main

import (
	"context"
	"errors"
	"log"
	"os"

	"bistro-cms-be/internal/config"
	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/internal/service"
	"bistro-cms-be/pkg/database"
	"bistro-cms-be/pkg/events"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	authService := service.NewAuthService(uowFactory, events.NopPublisher{}, sysLogger, cfg.App.JWTSecret, cfg.App.JWTTTL)
	SeedAdmin(ctx, authService)

	menuService := service.NewMenuService(uowFactory, events.NopPublisher{}, sysLogger)
	SeedMenu(ctx, uowFactory, menuService)

	log.Println("✅ Seeding completed")
}

// SeedAdmin creates the first admin from SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, authService service.IAuthService) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("Skip admin: SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return
	}

	admin, err := authService.CreateAdmin(ctx, &dto.CreateAdminRequest{
		Email:    email,
		FullName: "Bistro Admin",
		Password: password,
		Role:     "admin",
	})
	if errors.Is(err, service.ErrEmailTaken) {
		log.Printf("Skip admin: %s already exists", email)
		return
	}
	if err != nil {
		log.Fatalf("Error: Failed to create admin: %v", err)
	}
	log.Printf("Created admin %s (%s)", admin.Email, admin.Id)
}
