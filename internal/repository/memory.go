package repository

import (
	"context"
	"sync"

	"github.com/loanbuddy/loan-tracker/internal/domain"
)

// memoryPersistence keeps the last saved snapshot in process memory.
// Used when no database is configured and as the backend for tests.
type memoryPersistence struct {
	mu       sync.Mutex
	snapshot *Snapshot
}

func NewMemoryPersistence() Persistence {
	return &memoryPersistence{}
}

func (m *memoryPersistence) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snapshot == nil {
		return &Snapshot{
			Borrowers: []domain.Borrower{},
			Loans:     []domain.Loan{},
			Payments:  []domain.Payment{},
		}, nil
	}
	return copySnapshot(m.snapshot), nil
}

func (m *memoryPersistence) Save(ctx context.Context, snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshot = copySnapshot(snapshot)
	return nil
}

// copySnapshot clones the slices so callers cannot alias stored state.
func copySnapshot(s *Snapshot) *Snapshot {
	out := &Snapshot{
		Borrowers: make([]domain.Borrower, len(s.Borrowers)),
		Loans:     make([]domain.Loan, len(s.Loans)),
		Payments:  make([]domain.Payment, len(s.Payments)),
		Settings:  s.Settings,
	}
	copy(out.Borrowers, s.Borrowers)
	copy(out.Loans, s.Loans)
	copy(out.Payments, s.Payments)
	return out
}
