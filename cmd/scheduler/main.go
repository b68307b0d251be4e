package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/loanbuddy/loan-tracker/internal/config"
	"github.com/loanbuddy/loan-tracker/internal/repository"
	"github.com/loanbuddy/loan-tracker/internal/store"
)

// The scheduler runs the daily status sweep: as time passes, active
// loans past their due date become overdue, and overdue loans past the
// grace threshold become defaulted. Only changed loans are written back.
func main() {
	log.Println("Starting loan status scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required: the scheduler is pointless without shared persistence")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	persistence := repository.NewPostgresPersistence(db)

	c := cron.New(cron.WithSeconds())

	// Daily sweep shortly after midnight
	_, err = c.AddFunc("0 5 0 * * *", func() {
		if err := runStatusSweep(persistence, cfg); err != nil {
			log.Printf("Status sweep failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Error scheduling status sweep: %v", err)
	}

	// Run once on startup so a long-stopped scheduler catches up
	if err := runStatusSweep(persistence, cfg); err != nil {
		log.Printf("Initial status sweep failed: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func runStatusSweep(persistence repository.Persistence, cfg *config.Config) error {
	ctx := context.Background()

	portfolio, err := store.New(ctx, persistence, store.Options{
		GraceThresholdDays: cfg.Business.GraceThresholdDays,
		MarkPaidOnPayment:  cfg.Business.MarkPaidOnPayment,
		DefaultSettings:    cfg.DefaultSettings(),
	})
	if err != nil {
		return err
	}

	changed, err := portfolio.RefreshStatuses(ctx)
	if err != nil {
		return err
	}

	if changed > 0 {
		log.Printf("Status sweep reclassified %d loan(s)", changed)
	} else {
		log.Println("Status sweep found nothing to reclassify")
	}
	return nil
}
