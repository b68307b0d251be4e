// Package calc holds the pure loan calculations: remaining balance,
// status derivation and portfolio aggregation. Nothing here mutates its
// inputs or touches persistence; all functions are total over well-formed
// entities.
package calc

import (
	"github.com/shopspring/decimal"

	"github.com/loanbuddy/loan-tracker/internal/domain"
)

// TotalPaid sums the amount field across all payments.
func TotalPaid(payments []domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalInterest sums the interest components across all payments.
// Interest is tracked for reporting only and never reduces the balance.
func TotalInterest(payments []domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Interest)
	}
	return total
}

// RemainingBalance returns the loan principal minus everything paid
// against it. The result is deliberately not clamped at zero: an
// over-paid loan shows a negative balance.
func RemainingBalance(loan domain.Loan, payments []domain.Payment) decimal.Decimal {
	return loan.Principal.Sub(TotalPaid(payments))
}

// Metrics summarizes a single loan's financial position.
func Metrics(loan domain.Loan, payments []domain.Payment) domain.LoanMetrics {
	return domain.LoanMetrics{
		TotalPrincipal:   loan.Principal,
		TotalInterest:    TotalInterest(payments),
		TotalPaid:        TotalPaid(payments),
		RemainingBalance: RemainingBalance(loan, payments),
	}
}
