package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/loanbuddy/loan-tracker/internal/calc"
	"github.com/loanbuddy/loan-tracker/internal/domain"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
)

// Loans returns all loans.
func (s *Store) Loans() []domain.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneLoans(s.loans)
}

// Loan looks a loan up by id.
func (s *Store) Loan(id string) (domain.Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := indexOfLoan(s.loans, id); idx >= 0 {
		return s.loans[idx], true
	}
	return domain.Loan{}, false
}

// LoansByBorrower returns the loans referencing the given borrower.
func (s *Store) LoansByBorrower(borrowerID string) []domain.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Loan, 0)
	for _, loan := range s.loans {
		if loan.BorrowerID == borrowerID {
			matched = append(matched, loan)
		}
	}
	return matched
}

// LoanMetrics computes the financial summary for one loan.
func (s *Store) LoanMetrics(id string) (domain.LoanMetrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := indexOfLoan(s.loans, id)
	if idx < 0 {
		return domain.LoanMetrics{}, false
	}
	return calc.Metrics(s.loans[idx], paymentsFor(s.payments, id)), true
}

// CreateLoan registers a new loan. The referenced borrower must exist;
// its display name is denormalized onto the loan. New loans always start
// active, even when issued past their due date; the next resolution pass
// reclassifies them.
func (s *Store) CreateLoan(ctx context.Context, req domain.CreateLoanRequest) (domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrower, ok := findBorrower(s.borrowers, req.BorrowerID)
	if !ok {
		return domain.Loan{}, customError.WrapBorrowerNotFound(req.BorrowerID)
	}

	if req.Principal.IsNegative() {
		return domain.Loan{}, customError.WrapInvalidEntity("loan principal must not be negative")
	}

	loan := domain.Loan{
		ID:                uuid.NewString(),
		BorrowerID:        borrower.ID,
		BorrowerName:      borrower.Name,
		Principal:         req.Principal,
		InterestRate:      req.InterestRate,
		IssueDate:         req.IssueDate,
		DueDate:           req.DueDate,
		Status:            domain.LoanStatusActive,
		Frequency:         req.Frequency,
		Installments:      req.Installments,
		InstallmentAmount: req.InstallmentAmount,
		Notes:             req.Notes,
		CreatedAt:         s.now(),
	}
	if req.NextPaymentDate != nil {
		loan.Schedule = &domain.PaymentSchedule{NextPaymentDate: *req.NextPaymentDate}
	}

	loans := append(cloneLoans(s.loans), loan)
	if err := s.commitLocked(ctx, s.borrowers, loans, s.payments); err != nil {
		return domain.Loan{}, err
	}
	return loan, nil
}

// UpdateLoan applies a partial update. A changed borrower reference must
// resolve, and the denormalized borrower name is overwritten from the
// new borrower. Terms changes re-run status resolution across the
// portfolio.
func (s *Store) UpdateLoan(ctx context.Context, id string, req domain.UpdateLoanRequest) (domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans := cloneLoans(s.loans)
	idx := indexOfLoan(loans, id)
	if idx < 0 {
		return domain.Loan{}, customError.WrapLoanNotFound(id)
	}

	if req.BorrowerID != nil {
		borrower, ok := findBorrower(s.borrowers, *req.BorrowerID)
		if !ok {
			return domain.Loan{}, customError.WrapBorrowerNotFound(*req.BorrowerID)
		}
		loans[idx].BorrowerID = borrower.ID
		loans[idx].BorrowerName = borrower.Name
	}
	if req.Principal != nil {
		if req.Principal.IsNegative() {
			return domain.Loan{}, customError.WrapInvalidEntity("loan principal must not be negative")
		}
		loans[idx].Principal = *req.Principal
	}
	if req.InterestRate != nil {
		loans[idx].InterestRate = *req.InterestRate
	}
	if req.IssueDate != nil {
		loans[idx].IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		loans[idx].DueDate = *req.DueDate
	}
	if req.Frequency != nil {
		loans[idx].Frequency = *req.Frequency
	}
	if req.Installments != nil {
		loans[idx].Installments = *req.Installments
	}
	if req.InstallmentAmount != nil {
		loans[idx].InstallmentAmount = *req.InstallmentAmount
	}
	if req.NextPaymentDate != nil {
		loans[idx].Schedule = &domain.PaymentSchedule{NextPaymentDate: *req.NextPaymentDate}
	}
	if req.Notes != nil {
		loans[idx].Notes = *req.Notes
	}

	// Changed terms can move the loan between statuses.
	loanPayments := paymentsFor(s.payments, id)
	status := calc.ResolveStatus(loans[idx], loanPayments, s.now(), s.opts.GraceThresholdDays)
	loans[idx].Status = status

	if err := s.commitLocked(ctx, s.borrowers, loans, s.payments); err != nil {
		return domain.Loan{}, err
	}
	return loans[idx], nil
}

// DeleteLoan removes a loan and cascades to all its payments.
func (s *Store) DeleteLoan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := indexOfLoan(s.loans, id); idx < 0 {
		return customError.WrapLoanNotFound(id)
	}

	loans := make([]domain.Loan, 0, len(s.loans)-1)
	for _, loan := range s.loans {
		if loan.ID != id {
			loans = append(loans, loan)
		}
	}

	payments := make([]domain.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if p.LoanID != id {
			payments = append(payments, p)
		}
	}

	return s.commitLocked(ctx, s.borrowers, loans, payments)
}

func indexOfLoan(loans []domain.Loan, id string) int {
	for i, loan := range loans {
		if loan.ID == id {
			return i
		}
	}
	return -1
}

func cloneLoans(in []domain.Loan) []domain.Loan {
	out := make([]domain.Loan, len(in))
	copy(out, in)
	return out
}
