package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/byeager-uptime/docmost/internal/bootstrap"
	"github.com/byeager-uptime/docmost/internal/config"
	"github.com/byeager-uptime/docmost/internal/tracer"
	"github.com/byeager-uptime/docmost/pkg/database"
	"github.com/byeager-uptime/docmost/pkg/events"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Audit trail: log every sync event that reaches the bus.
	if container.EventSubscriber != nil {
		err := container.EventSubscriber.Subscribe("events.*", "sync-audit", func(ctx context.Context, evt events.Event) error {
			container.Logger.Info("audit", "sync event observed", evt.Payload())
			return nil
		})
		if err != nil {
			log.Printf("Warn: Failed to subscribe to sync events: %v", err)
		}
	}

	// 5. Restore Auto-Sync Schedules
	if err := container.SchedulerService.RestoreAll(context.Background()); err != nil {
		log.Printf("Warn: Failed to restore sync schedules: %v", err)
	}

	log.Println("Worker started. Waiting for scheduled syncs...")

	// 6. Wait for Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	container.SchedulerService.StopAll()
	if container.EventPublisher != nil {
		container.EventPublisher.Close()
	}
	if container.EventSubscriber != nil {
		container.EventSubscriber.Close()
	}
	_ = container.Logger.Sync()
}
