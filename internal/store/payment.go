package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
)

// Payments returns all payments.
func (s *Store) Payments() []domain.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

// Payment looks a payment up by id.
func (s *Store) Payment(id string) (domain.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := indexOfPayment(s.payments, id); idx >= 0 {
		return s.payments[idx], true
	}
	return domain.Payment{}, false
}

// PaymentsByLoan returns the payments recorded against a loan.
func (s *Store) PaymentsByLoan(loanID string) []domain.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paymentsFor(s.payments, loanID)
}

// CreatePayment records a payment against an existing loan. With the
// mark-paid-on-payment rule active the owning loan is set to paid
// unconditionally, even for a partial payment; the rest of the portfolio
// is re-resolved as usual. With the rule off, the owning loan goes
// through the general classifier like every other.
func (s *Store) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loanIdx := indexOfLoan(s.loans, req.LoanID)
	if loanIdx < 0 {
		return domain.Payment{}, customError.WrapLoanNotFound(req.LoanID)
	}

	payment := domain.Payment{
		ID:        uuid.NewString(),
		LoanID:    req.LoanID,
		Date:      req.Date,
		Amount:    req.Amount,
		Principal: req.Principal,
		Interest:  req.Interest,
		Notes:     req.Notes,
		CreatedAt: s.now(),
	}

	payments := append(clonePayments(s.payments), payment)
	loans, _ := s.resolveAll(s.loans, payments)

	if s.opts.MarkPaidOnPayment {
		loans[loanIdx].Status = domain.LoanStatusPaid
	}

	if err := s.commitLocked(ctx, s.borrowers, loans, payments); err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// UpdatePayment applies a partial update, then re-runs the general
// status classifier against the updated payment set.
func (s *Store) UpdatePayment(ctx context.Context, id string, req domain.UpdatePaymentRequest) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments := clonePayments(s.payments)
	idx := indexOfPayment(payments, id)
	if idx < 0 {
		return domain.Payment{}, customError.WrapPaymentNotFound(id)
	}

	if req.Date != nil {
		payments[idx].Date = *req.Date
	}
	if req.Amount != nil {
		payments[idx].Amount = *req.Amount
	}
	if req.Principal != nil {
		payments[idx].Principal = *req.Principal
	}
	if req.Interest != nil {
		payments[idx].Interest = *req.Interest
	}
	if req.Notes != nil {
		payments[idx].Notes = *req.Notes
	}

	loans, _ := s.resolveAll(s.loans, payments)
	if err := s.commitLocked(ctx, s.borrowers, loans, payments); err != nil {
		return domain.Payment{}, err
	}
	return payments[idx], nil
}

// DeletePayment removes a payment and re-resolves the owning loan's
// status from the remaining payments.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := indexOfPayment(s.payments, id); idx < 0 {
		return customError.WrapPaymentNotFound(id)
	}

	payments := make([]domain.Payment, 0, len(s.payments)-1)
	for _, p := range s.payments {
		if p.ID != id {
			payments = append(payments, p)
		}
	}

	loans, _ := s.resolveAll(s.loans, payments)
	return s.commitLocked(ctx, s.borrowers, loans, payments)
}

func indexOfPayment(payments []domain.Payment, id string) int {
	for i, p := range payments {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clonePayments(in []domain.Payment) []domain.Payment {
	out := make([]domain.Payment, len(in))
	copy(out, in)
	return out
}
