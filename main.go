package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"mediahub/internal/config"
	"mediahub/internal/database"
	"mediahub/internal/openverse"
	"mediahub/internal/repositories"
	"mediahub/internal/server"
	"mediahub/internal/services"
	"mediahub/pkg/rabbitmq"
)

// App is the assembled service together with the resources it must release on shutdown.
type App struct {
	Fiber    *fiber.App
	mqClient *rabbitmq.Client
}

// NewApp wires configuration, storage, the Openverse client and the optional
// RabbitMQ event stream into a ready-to-listen Fiber application.
func NewApp(cfg config.Config) (*App, error) {
	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	contactRepo := repositories.NewGORMContactRepository(db)
	historyRepo := repositories.NewGORMSearchHistoryRepository(db)

	// --- RabbitMQ (optional) ---
	app := &App{}
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		app.mqClient = mqClient
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL not set; search history events are not published")
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiresIn)
	contactService := services.NewContactService(contactRepo)
	historyService := services.NewHistoryService(historyRepo, userRepo, publisher)

	gateway := openverse.NewClient(openverse.Config{
		BaseURL:              cfg.OpenverseBaseURL,
		ClientID:             cfg.OpenverseClientID,
		ClientSecret:         cfg.OpenverseClientSecret,
		Timeout:              cfg.OpenverseTimeout,
		ReauthOnUnauthorized: cfg.OpenverseReauthOn401,
	})

	app.Fiber = server.New(server.Deps{
		AuthService:    authService,
		ContactService: contactService,
		HistoryService: historyService,
		Media:          gateway,
		CORSOrigins:    cfg.CORSOrigins,
		RequestLogging: true,
	})
	return app, nil
}

// StartConsumer logs every search history event from the queue. It is a no-op without RabbitMQ.
func (a *App) StartConsumer() {
	if a.mqClient == nil {
		return
	}
	log.Println("Starting RabbitMQ consumer for search history events...")
	if err := a.mqClient.ConsumeHistoryEvents(rabbitmq.HandleHistoryMessage); err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
}

// Shutdown stops the HTTP server and closes the RabbitMQ connection.
func (a *App) Shutdown() error {
	err := a.Fiber.Shutdown()
	if a.mqClient != nil {
		if mqErr := a.mqClient.Close(); mqErr != nil && err == nil {
			err = mqErr
		}
	}
	return err
}

func main() {
	cfg := config.Load()

	app, err := NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	app.StartConsumer()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
