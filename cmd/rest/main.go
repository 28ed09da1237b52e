package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"resume-turns-be/internal/bootstrap"
	"resume-turns-be/internal/config"
	"resume-turns-be/internal/server"
	"resume-turns-be/internal/tracer"
	"resume-turns-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	pool := database.DefaultPool()
	pool.MaxIdleConns = cfg.Database.MaxIdleConns
	pool.MaxOpenConns = cfg.Database.MaxOpenConns

	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection, pool)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go container.WebSocketHub.Run(ctx)

	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
