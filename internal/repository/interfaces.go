package repository

import (
	"context"

	"github.com/loanbuddy/loan-tracker/internal/domain"
)

// Snapshot is the whole portfolio as read from or written to a
// persistence backend. Collections are always exchanged wholesale, never
// streamed.
type Snapshot struct {
	Borrowers []domain.Borrower
	Loans     []domain.Loan
	Payments  []domain.Payment
	Settings  domain.AppSettings
}

// Persistence supplies and accepts portfolio snapshots. The calculation
// core never talks to a Persistence directly; only the store does, on
// load and after each committed mutation.
type Persistence interface {
	// Load reads the full portfolio snapshot
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored portfolio with the given snapshot
	Save(ctx context.Context, snapshot *Snapshot) error
}
