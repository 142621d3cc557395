package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"adboard/cmd"
	"adboard/config"
	"adboard/database"
	"adboard/domain/services"
	"adboard/infrastructure"
	"adboard/repository"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for ledger integrity subcommand
	if len(os.Args) > 1 && os.Args[1] == "integrity" {
		if err := handleIntegrityCommand(); err != nil {
			log.Fatal("Integrity check error:", err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: adboard migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleIntegrityCommand re-derives an account balance from the ledger and
// reports drift against the cached value
func handleIntegrityCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: adboard integrity <account-id>")
	}

	accountID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid account id %q: %w", os.Args[2], err)
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ledgerService := services.NewLedgerService(
		repository.NewAccountRepository(db),
		repository.NewLedgerEntryRepository(db),
		&infrastructure.NoopEventPublisher{},
	)

	report, err := ledgerService.CheckIntegrity(ctx, accountID)
	if err != nil {
		return err
	}

	if report.Consistent() {
		log.Printf("Account %d consistent: balance %d matches ledger", accountID, report.CachedBalance)
	} else {
		log.Printf("Account %d INCONSISTENT: cached %d, ledger %d (drift %d)",
			accountID, report.CachedBalance, report.DerivedBalance, report.CachedBalance-report.DerivedBalance)
	}

	return nil
}
