package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbuddy/loan-tracker/internal/domain"
)

func TestMemoryPersistenceLoadBeforeSave(t *testing.T) {
	p := NewMemoryPersistence()

	snapshot, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Borrowers)
	assert.Empty(t, snapshot.Loans)
	assert.Empty(t, snapshot.Payments)
}

func TestMemoryPersistenceRoundTrip(t *testing.T) {
	p := NewMemoryPersistence()

	saved := &Snapshot{
		Borrowers: []domain.Borrower{{ID: "b1", Name: "Ana"}},
		Loans:     []domain.Loan{{ID: "l1", BorrowerID: "b1", Principal: decimal.NewFromInt(1000)}},
		Payments:  []domain.Payment{{ID: "p1", LoanID: "l1", Amount: decimal.NewFromInt(100)}},
	}
	require.NoError(t, p.Save(context.Background(), saved))

	loaded, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved.Borrowers, loaded.Borrowers)
	assert.Equal(t, saved.Loans, loaded.Loans)
	assert.Equal(t, saved.Payments, loaded.Payments)
}

func TestMemoryPersistenceDoesNotAliasCallerSlices(t *testing.T) {
	p := NewMemoryPersistence()

	saved := &Snapshot{
		Borrowers: []domain.Borrower{{ID: "b1", Name: "Ana"}},
		Loans:     []domain.Loan{},
		Payments:  []domain.Payment{},
	}
	require.NoError(t, p.Save(context.Background(), saved))

	// Mutating the caller's slice must not leak into stored state.
	saved.Borrowers[0].Name = "changed"

	loaded, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", loaded.Borrowers[0].Name)
}
