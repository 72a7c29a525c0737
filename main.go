package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/khalef-khalil/nkcommerce/internal/config"
	"github.com/khalef-khalil/nkcommerce/internal/handlers"
	"github.com/khalef-khalil/nkcommerce/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	v := viper.GetViper()
	v.AutomaticEnv()
	cfg, err := config.Load(v)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Initialize RabbitMQ Client ---
	// Events are optional; without RABBITMQ_URL nothing is published.
	var events handlers.Publisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.EventsExchange})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		go func() {
			log.Println("Starting RabbitMQ audit consumer...")
			if err := mqClient.Consume("storefront_audit", "#", rabbitmq.AuditHandler); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}()
	}

	app, cleanup, err := newApp(cfg, events)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (backend %s)", cfg.AppPort, cfg.BackendURL)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
