package main

import (
	"context"
	"log"

	"github.com/SuryaSekhar14/s3rd-chat/internal/bootstrap"
	"github.com/SuryaSekhar14/s3rd-chat/internal/config"
	"github.com/SuryaSekhar14/s3rd-chat/internal/server"
	"github.com/SuryaSekhar14/s3rd-chat/internal/tracer"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/database"
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
		log.Println("Background: Starting persist worker...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background persist worker error: %v", err)
		}
	}()

	// 5. Initialize and run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
