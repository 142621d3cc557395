package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"adboard/application"
	"adboard/config"
	"adboard/database"
	"adboard/infrastructure"
	"adboard/repository"

	"github.com/bwmarrin/discordgo"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting adboard service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS event publishing
	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	log.Println("NATS event publishing initialized successfully")

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventPublisher)

	// Initialize Discord session for ad delivery
	log.Println("Connecting to Discord...")
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	sender := infrastructure.NewDiscordSender(session)
	log.Println("Discord session established successfully")

	// Start the dispatch worker
	worker := application.NewDispatchWorker(uowFactory, sender, cfg.SweepInterval, cfg.DispatchLookahead)
	stopWorker := worker.Start(ctx)

	// Start the ops server for health checks and metrics
	opsServer := infrastructure.NewOpsServer(cfg.MetricsAddr, db, natsClient)
	go func() {
		if err := opsServer.Start(); err != nil {
			log.Printf("Ops server error: %v", err)
		}
	}()

	// Wait for context cancellation
	log.Printf("Service is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down service...")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down ops server: %v", err)
	}

	if err := session.Close(); err != nil {
		log.Printf("Error closing Discord session: %v", err)
	}

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
