package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loanbuddy/loan-tracker/internal/calc"
	"github.com/loanbuddy/loan-tracker/internal/config"
	"github.com/loanbuddy/loan-tracker/internal/csvport"
	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/internal/store"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
)

const (
	metricsCacheKey = "dashboard:metrics"
	metricsCacheTTL = 5 * time.Minute
)

// PortfolioService layers the read-side aggregation and the bulk
// import/export contract over the store. Dashboard metrics are cached in
// redis when a client is configured; the cache is dropped after every
// committed mutation.
type PortfolioService struct {
	Store  *store.Store
	redis  *redis.Client
	config *config.Config
}

func NewPortfolioService(st *store.Store, redisClient *redis.Client, cfg *config.Config) *PortfolioService {
	return &PortfolioService{
		Store:  st,
		redis:  redisClient,
		config: cfg,
	}
}

// DashboardMetrics returns the portfolio summary, from cache when
// possible. Cache failures are logged and fall through to a fresh
// computation; metrics are never stale across mutations because every
// mutating handler calls InvalidateMetrics.
func (s *PortfolioService) DashboardMetrics(ctx context.Context) domain.DashboardMetrics {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, metricsCacheKey).Result()
		if err == nil {
			var metrics domain.DashboardMetrics
			if jsonErr := json.Unmarshal([]byte(cached), &metrics); jsonErr == nil {
				return metrics
			}
		} else if err != redis.Nil {
			log.Printf("metrics cache read: %v", customError.WrapCacheError(err))
		}
	}

	snapshot := s.Store.Snapshot()
	metrics := calc.DashboardMetrics(snapshot.Borrowers, snapshot.Loans, snapshot.Payments, time.Now())

	if s.redis != nil {
		payload, err := json.Marshal(metrics)
		if err == nil {
			if err := s.redis.Set(ctx, metricsCacheKey, payload, metricsCacheTTL).Err(); err != nil {
				log.Printf("metrics cache write: %v", customError.WrapCacheError(err))
			}
		}
	}

	return metrics
}

// InvalidateMetrics drops the cached dashboard summary.
func (s *PortfolioService) InvalidateMetrics(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, metricsCacheKey).Err(); err != nil {
		log.Printf("metrics cache invalidation: %v", customError.WrapCacheError(err))
	}
}

// OverdueLoans lists loans classified overdue or defaulted.
func (s *PortfolioService) OverdueLoans() []domain.Loan {
	return calc.OverdueLoans(s.Store.Loans())
}

// UpcomingDueLoans lists active loans whose next scheduled payment falls
// within the horizon. A zero horizon uses the configured default.
func (s *PortfolioService) UpcomingDueLoans(horizonDays int) []domain.Loan {
	if horizonDays <= 0 {
		horizonDays = s.config.Business.UpcomingDueHorizonDays
	}
	return calc.UpcomingDueLoans(s.Store.Loans(), horizonDays, time.Now())
}

// Export renders the whole portfolio in the sectioned CSV format.
func (s *PortfolioService) Export() (string, error) {
	snapshot := s.Store.Snapshot()
	return csvport.Export(snapshot.Borrowers, snapshot.Loans, snapshot.Payments)
}

// Import replaces the portfolio from a sectioned CSV document. The
// document is parsed and validated in full before anything is applied;
// on any failure the existing collections are untouched.
func (s *PortfolioService) Import(ctx context.Context, data string) error {
	borrowers, loans, payments, err := csvport.Import(data)
	if err != nil {
		return err
	}

	if err := s.Store.ReplaceAll(ctx, borrowers, loans, payments); err != nil {
		return err
	}

	s.InvalidateMetrics(ctx)
	return nil
}
