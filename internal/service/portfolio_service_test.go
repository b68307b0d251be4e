package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbuddy/loan-tracker/internal/config"
	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/internal/repository"
	"github.com/loanbuddy/loan-tracker/internal/store"
)

func newTestService(t *testing.T) *PortfolioService {
	t.Helper()

	cfg := &config.Config{}
	cfg.Business.GraceThresholdDays = 5
	cfg.Business.MarkPaidOnPayment = true
	cfg.Business.UpcomingDueHorizonDays = 7

	portfolio, err := store.New(context.Background(), repository.NewMemoryPersistence(), store.Options{
		GraceThresholdDays: cfg.Business.GraceThresholdDays,
		MarkPaidOnPayment:  cfg.Business.MarkPaidOnPayment,
	})
	require.NoError(t, err)

	// nil redis client disables caching
	return NewPortfolioService(portfolio, nil, cfg)
}

func seedLoan(t *testing.T, s *PortfolioService, nextPaymentOffset int) domain.Loan {
	t.Helper()

	ctx := context.Background()
	borrower, err := s.Store.CreateBorrower(ctx, domain.CreateBorrowerRequest{Name: "Ana"})
	require.NoError(t, err)

	next := time.Now().AddDate(0, 0, nextPaymentOffset)
	loan, err := s.Store.CreateLoan(ctx, domain.CreateLoanRequest{
		BorrowerID:      borrower.ID,
		Principal:       decimal.NewFromInt(1000),
		IssueDate:       time.Now().AddDate(0, 0, -10),
		DueDate:         time.Now().AddDate(0, 0, 60),
		Frequency:       domain.FrequencyMonthly,
		NextPaymentDate: &next,
	})
	require.NoError(t, err)
	return loan
}

func TestDashboardMetricsWithoutCache(t *testing.T) {
	s := newTestService(t)
	seedLoan(t, s, 3)

	metrics := s.DashboardMetrics(context.Background())

	assert.Equal(t, 1, metrics.TotalBorrowers)
	assert.Equal(t, 1, metrics.ActiveLoanCount)
	assert.True(t, metrics.TotalLoaned.Equal(decimal.NewFromInt(1000)))
}

func TestUpcomingDueLoansDefaultHorizon(t *testing.T) {
	s := newTestService(t)
	inWindow := seedLoan(t, s, 3)
	seedLoan(t, s, 20)

	// zero horizon falls back to the configured seven days
	upcoming := s.UpcomingDueLoans(0)

	require.Len(t, upcoming, 1)
	assert.Equal(t, inWindow.ID, upcoming[0].ID)
}

func TestImportFailureLeavesPortfolioIntact(t *testing.T) {
	s := newTestService(t)
	seedLoan(t, s, 3)

	err := s.Import(context.Background(), "[BORROWERS]\nbad")
	require.Error(t, err)

	assert.Len(t, s.Store.Borrowers(), 1)
	assert.Len(t, s.Store.Loans(), 1)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestService(t)
	loan := seedLoan(t, s, 3)

	_, err := s.Store.CreatePayment(context.Background(), domain.CreatePaymentRequest{
		LoanID: loan.ID,
		Date:   time.Now(),
		Amount: decimal.NewFromInt(250),
	})
	require.NoError(t, err)

	exported, err := s.Export()
	require.NoError(t, err)

	require.NoError(t, s.Import(context.Background(), exported))

	assert.Len(t, s.Store.Borrowers(), 1)
	assert.Len(t, s.Store.Loans(), 1)
	assert.Len(t, s.Store.Payments(), 1)

	got, ok := s.Store.Loan(loan.ID)
	require.True(t, ok)
	// the paid-on-payment override survives the round trip
	assert.Equal(t, domain.LoanStatusPaid, got.Status)
}
