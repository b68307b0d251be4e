package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
)

// Borrowers returns all borrowers.
func (s *Store) Borrowers() []domain.Borrower {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Borrower, len(s.borrowers))
	copy(out, s.borrowers)
	return out
}

// Borrower looks a borrower up by id. Absence is a result, not an error.
func (s *Store) Borrower(id string) (domain.Borrower, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return findBorrower(s.borrowers, id)
}

// CreateBorrower adds a new borrower with a fresh id.
func (s *Store) CreateBorrower(ctx context.Context, req domain.CreateBorrowerRequest) (domain.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrower := domain.Borrower{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: s.now(),
	}

	borrowers := append(cloneBorrowers(s.borrowers), borrower)
	if err := s.commitLocked(ctx, borrowers, s.loans, s.payments); err != nil {
		return domain.Borrower{}, err
	}
	return borrower, nil
}

// UpdateBorrower applies a partial update. When the name changes, the
// denormalized copy on every loan referencing this borrower is
// re-synchronized.
func (s *Store) UpdateBorrower(ctx context.Context, id string, req domain.UpdateBorrowerRequest) (domain.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrowers := cloneBorrowers(s.borrowers)
	idx := indexOfBorrower(borrowers, id)
	if idx < 0 {
		return domain.Borrower{}, customError.WrapBorrowerNotFound(id)
	}

	if req.Name != nil {
		borrowers[idx].Name = *req.Name
	}
	if req.Email != nil {
		borrowers[idx].Email = *req.Email
	}
	if req.Phone != nil {
		borrowers[idx].Phone = *req.Phone
	}

	loans := s.loans
	if req.Name != nil {
		loans = cloneLoans(s.loans)
		for i := range loans {
			if loans[i].BorrowerID == id {
				loans[i].BorrowerName = *req.Name
			}
		}
	}

	if err := s.commitLocked(ctx, borrowers, loans, s.payments); err != nil {
		return domain.Borrower{}, err
	}
	return borrowers[idx], nil
}

// DeleteBorrower removes a borrower. Rejected while any loan still
// references it.
func (s *Store) DeleteBorrower(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := findBorrower(s.borrowers, id); !ok {
		return customError.WrapBorrowerNotFound(id)
	}

	referencing := 0
	for _, loan := range s.loans {
		if loan.BorrowerID == id {
			referencing++
		}
	}
	if referencing > 0 {
		return customError.WrapBorrowerHasLoans(id, referencing)
	}

	borrowers := make([]domain.Borrower, 0, len(s.borrowers)-1)
	for _, b := range s.borrowers {
		if b.ID != id {
			borrowers = append(borrowers, b)
		}
	}

	return s.commitLocked(ctx, borrowers, s.loans, s.payments)
}

func findBorrower(borrowers []domain.Borrower, id string) (domain.Borrower, bool) {
	if idx := indexOfBorrower(borrowers, id); idx >= 0 {
		return borrowers[idx], true
	}
	return domain.Borrower{}, false
}

func indexOfBorrower(borrowers []domain.Borrower, id string) int {
	for i, b := range borrowers {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func cloneBorrowers(in []domain.Borrower) []domain.Borrower {
	out := make([]domain.Borrower, len(in))
	copy(out, in)
	return out
}
