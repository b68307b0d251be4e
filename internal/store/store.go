// Package store is the mutation coordinator: it owns the in-memory
// portfolio collections, enforces referential integrity between
// borrowers, loans and payments, and re-derives loan status after every
// payment mutation. Mutations are applied copy-on-write and committed to
// the persistence collaborator before the in-memory state is swapped, so
// a failed commit leaves the portfolio unchanged.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/loanbuddy/loan-tracker/internal/calc"
	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/internal/repository"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
)

// Options configures the store's derivation rules.
type Options struct {
	// GraceThresholdDays is the overdue-to-defaulted cutoff.
	GraceThresholdDays int

	// MarkPaidOnPayment keeps the legacy rule of marking a loan paid the
	// moment any payment is recorded, even a partial one.
	MarkPaidOnPayment bool

	// DefaultSettings seeds AppSettings when the persisted snapshot has
	// none.
	DefaultSettings domain.AppSettings

	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// Store coordinates all entity mutations over a single portfolio.
type Store struct {
	// Mutations serialize on the mutex; the model is single-writer but
	// HTTP handlers call in from concurrent goroutines.
	mu sync.RWMutex

	borrowers []domain.Borrower
	loans     []domain.Loan
	payments  []domain.Payment
	settings  domain.AppSettings

	persistence repository.Persistence
	opts        Options
	now         func() time.Time
}

// New loads the portfolio from the persistence collaborator and wraps it
// in a store.
func New(ctx context.Context, persistence repository.Persistence, opts Options) (*Store, error) {
	snapshot, err := persistence.Load(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	settings := snapshot.Settings
	if settings == (domain.AppSettings{}) {
		settings = opts.DefaultSettings
	}

	return &Store{
		borrowers:   snapshot.Borrowers,
		loans:       snapshot.Loans,
		payments:    snapshot.Payments,
		settings:    settings,
		persistence: persistence,
		opts:        opts,
		now:         now,
	}, nil
}

// Snapshot returns a copy of the current portfolio.
func (s *Store) Snapshot() *repository.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *repository.Snapshot {
	snapshot := &repository.Snapshot{
		Borrowers: make([]domain.Borrower, len(s.borrowers)),
		Loans:     make([]domain.Loan, len(s.loans)),
		Payments:  make([]domain.Payment, len(s.payments)),
		Settings:  s.settings,
	}
	copy(snapshot.Borrowers, s.borrowers)
	copy(snapshot.Loans, s.loans)
	copy(snapshot.Payments, s.payments)
	return snapshot
}

// ReplaceAll swaps in a whole new portfolio, used by bulk import. The
// replacement is committed before it becomes visible; a failed commit
// leaves the existing collections untouched.
func (s *Store) ReplaceAll(ctx context.Context, borrowers []domain.Borrower, loans []domain.Loan, payments []domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitLocked(ctx, borrowers, loans, payments)
}

// commitLocked persists the candidate collections and, on success, makes
// them the current state.
func (s *Store) commitLocked(ctx context.Context, borrowers []domain.Borrower, loans []domain.Loan, payments []domain.Payment) error {
	snapshot := &repository.Snapshot{
		Borrowers: borrowers,
		Loans:     loans,
		Payments:  payments,
		Settings:  s.settings,
	}

	if err := s.persistence.Save(ctx, snapshot); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.borrowers = borrowers
	s.loans = loans
	s.payments = payments
	return nil
}

// resolveAll recomputes every loan's status against the given payment
// set and returns the updated slice plus how many loans changed. Only
// changed loans are rewritten.
func (s *Store) resolveAll(loans []domain.Loan, payments []domain.Payment) ([]domain.Loan, int) {
	today := s.now()
	changed := 0

	resolved := make([]domain.Loan, len(loans))
	copy(resolved, loans)

	for i, loan := range resolved {
		loanPayments := paymentsFor(payments, loan.ID)
		status := calc.ResolveStatus(loan, loanPayments, today, s.opts.GraceThresholdDays)
		if status != loan.Status {
			resolved[i].Status = status
			changed++
		}
	}

	return resolved, changed
}

// RefreshStatuses re-resolves every loan against today's date and
// commits only if any status changed. The scheduler calls this daily so
// loans move to overdue and defaulted as time passes.
func (s *Store) RefreshStatuses(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, changed := s.resolveAll(s.loans, s.payments)
	if changed == 0 {
		return 0, nil
	}

	if err := s.commitLocked(ctx, s.borrowers, resolved, s.payments); err != nil {
		return 0, err
	}
	return changed, nil
}

// Settings returns the current app settings.
func (s *Store) Settings() domain.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// UpdateSettings applies a partial settings update.
func (s *Store) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest) (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.settings
	if req.DefaultInterestRate != nil {
		updated.DefaultInterestRate = *req.DefaultInterestRate
	}
	if req.DefaultPaymentFrequency != nil {
		updated.DefaultPaymentFrequency = *req.DefaultPaymentFrequency
	}
	if req.DefaultInstallments != nil {
		updated.DefaultInstallments = *req.DefaultInstallments
	}
	if req.Currency != nil {
		updated.Currency = *req.Currency
	}

	previous := s.settings
	s.settings = updated
	if err := s.commitLocked(ctx, s.borrowers, s.loans, s.payments); err != nil {
		s.settings = previous
		return domain.AppSettings{}, err
	}
	return updated, nil
}

func paymentsFor(payments []domain.Payment, loanID string) []domain.Payment {
	matched := make([]domain.Payment, 0)
	for _, p := range payments {
		if p.LoanID == loanID {
			matched = append(matched, p)
		}
	}
	return matched
}
