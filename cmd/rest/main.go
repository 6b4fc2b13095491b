package main

import (
	"context"
	"log"

	"llama-chat-be/internal/bootstrap"
	"llama-chat-be/internal/config"
	"llama-chat-be/internal/server"
	"llama-chat-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Generation Worker...")
		if err := container.GenerationWorker.Consume(context.Background()); err != nil {
			log.Printf("Background Generation Worker Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
