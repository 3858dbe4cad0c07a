package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wtf2eat-be/internal/bootstrap"
	"wtf2eat-be/internal/config"
	"wtf2eat-be/internal/server"
	"wtf2eat-be/internal/tracer"
	"wtf2eat-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(cfg.App)
	defer shutdownTracer(context.Background())

	var db *gorm.DB
	if cfg.Database.StoreDriver != "memory" {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		defer database.Close(db)
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	container.Start(ctx)

	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		_ = srv.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
