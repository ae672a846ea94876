package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bistro-cms-be/internal/bootstrap"
	"bistro-cms-be/internal/config"
	"bistro-cms-be/internal/server"
	"bistro-cms-be/internal/tracer"
	"bistro-cms-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Tracer is a no-op unless OTEL_ENABLED=true
	shutdownTracer := tracer.InitTracer(cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.Open(cfg.Database.Connection, database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		SlowQuery:       cfg.Database.SlowQuery,
		Verbose:         !cfg.IsProduction(),
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Close()

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting TOC reindex consumer...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	go container.NotificationService.Start()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.GetApp().Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
