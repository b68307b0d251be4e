package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/loanbuddy/loan-tracker/internal/config"
	"github.com/loanbuddy/loan-tracker/internal/handler"
	"github.com/loanbuddy/loan-tracker/internal/repository"
	"github.com/loanbuddy/loan-tracker/internal/service"
	"github.com/loanbuddy/loan-tracker/internal/store"
	"github.com/loanbuddy/loan-tracker/pkg/response"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database-backed persistence when configured; fall back
	// to in-memory otherwise.
	var db *sqlx.DB
	var persistence repository.Persistence
	if cfg.Database.URL != "" {
		db, err = initDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		persistence = repository.NewPostgresPersistence(db)
	} else {
		log.Println("DATABASE_URL not set, keeping portfolio in memory")
		persistence = repository.NewMemoryPersistence()
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = initRedis(cfg)
		defer redisClient.Close()
	}

	portfolio, err := store.New(context.Background(), persistence, store.Options{
		GraceThresholdDays: cfg.Business.GraceThresholdDays,
		MarkPaidOnPayment:  cfg.Business.MarkPaidOnPayment,
		DefaultSettings:    cfg.DefaultSettings(),
	})
	if err != nil {
		log.Fatalf("Failed to load portfolio: %v", err)
	}

	// Catch up on statuses that drifted while the server was down.
	if changed, err := portfolio.RefreshStatuses(context.Background()); err != nil {
		log.Fatalf("Failed to refresh loan statuses: %v", err)
	} else if changed > 0 {
		log.Printf("Reclassified %d loan(s) on startup", changed)
	}

	portfolioService := service.NewPortfolioService(portfolio, redisClient, cfg)
	apiHandler := handler.NewHandler(portfolioService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(apiHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(apiHandler *handler.Handler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/borrowers", apiHandler.ListBorrowers).Methods("GET")
	api.HandleFunc("/borrowers", apiHandler.CreateBorrower).Methods("POST")
	api.HandleFunc("/borrowers/{id}", apiHandler.GetBorrower).Methods("GET")
	api.HandleFunc("/borrowers/{id}", apiHandler.UpdateBorrower).Methods("PATCH")
	api.HandleFunc("/borrowers/{id}", apiHandler.DeleteBorrower).Methods("DELETE")
	api.HandleFunc("/borrowers/{id}/loans", apiHandler.ListBorrowerLoans).Methods("GET")

	api.HandleFunc("/loans", apiHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans", apiHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans/overdue", apiHandler.ListOverdueLoans).Methods("GET")
	api.HandleFunc("/loans/upcoming", apiHandler.ListUpcomingDueLoans).Methods("GET")
	api.HandleFunc("/loans/{id}", apiHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{id}", apiHandler.UpdateLoan).Methods("PATCH")
	api.HandleFunc("/loans/{id}", apiHandler.DeleteLoan).Methods("DELETE")
	api.HandleFunc("/loans/{id}/payments", apiHandler.ListLoanPayments).Methods("GET")
	api.HandleFunc("/loans/{id}/metrics", apiHandler.GetLoanMetrics).Methods("GET")

	api.HandleFunc("/payments", apiHandler.ListPayments).Methods("GET")
	api.HandleFunc("/payments", apiHandler.CreatePayment).Methods("POST")
	api.HandleFunc("/payments/{id}", apiHandler.GetPayment).Methods("GET")
	api.HandleFunc("/payments/{id}", apiHandler.UpdatePayment).Methods("PATCH")
	api.HandleFunc("/payments/{id}", apiHandler.DeletePayment).Methods("DELETE")

	api.HandleFunc("/dashboard", apiHandler.GetDashboard).Methods("GET")
	api.HandleFunc("/settings", apiHandler.GetSettings).Methods("GET")
	api.HandleFunc("/settings", apiHandler.UpdateSettings).Methods("PUT")
	api.HandleFunc("/export", apiHandler.ExportData).Methods("GET")
	api.HandleFunc("/import", apiHandler.ImportData).Methods("POST")

	return router
}
