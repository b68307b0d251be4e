package calc

import (
	"time"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/pkg/utils"
)

// ResolveStatus classifies a loan from its terms and payment history.
// It is a stateless classifier, not a transition-guarded state machine:
// every call recomputes from scratch, so any status can follow any other
// when the underlying facts change.
//
// Priority order, first match wins:
//  1. payments cover the principal            -> paid
//  2. past due by more than graceDays         -> defaulted
//  3. past due within graceDays               -> overdue
//  4. otherwise                               -> active
//
// Payment completeness is checked before lateness, so a fully paid loan
// whose due date has passed resolves to paid, never overdue.
func ResolveStatus(loan domain.Loan, payments []domain.Payment, today time.Time, graceDays int) string {
	if len(payments) > 0 && TotalPaid(payments).GreaterThanOrEqual(loan.Principal) {
		return domain.LoanStatusPaid
	}

	daysPast := utils.DaysPast(loan.DueDate, today)
	if daysPast > graceDays {
		return domain.LoanStatusDefaulted
	}
	if daysPast > 0 {
		return domain.LoanStatusOverdue
	}

	return domain.LoanStatusActive
}
