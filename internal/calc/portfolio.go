package calc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	"github.com/loanbuddy/loan-tracker/pkg/utils"
)

// DashboardMetrics aggregates the whole portfolio into the dashboard
// summary. Overdue exposure is the remaining balance over loans currently
// classified overdue or defaulted; monthly receipts use calendar-month
// granularity, not a rolling 30-day window.
func DashboardMetrics(borrowers []domain.Borrower, loans []domain.Loan, payments []domain.Payment, today time.Time) domain.DashboardMetrics {
	metrics := domain.DashboardMetrics{
		TotalLoaned:            decimal.Zero,
		TotalInterestAccrued:   TotalInterest(payments),
		TotalOverdue:           decimal.Zero,
		TotalBorrowers:         len(borrowers),
		TotalReceivedThisMonth: decimal.Zero,
	}

	byLoan := paymentsByLoan(payments)

	for _, loan := range loans {
		metrics.TotalLoaned = metrics.TotalLoaned.Add(loan.Principal)

		switch loan.Status {
		case domain.LoanStatusActive:
			metrics.ActiveLoanCount++
		case domain.LoanStatusPaid:
			metrics.PaidLoanCount++
		case domain.LoanStatusOverdue:
			metrics.OverdueLoanCount++
		case domain.LoanStatusDefaulted:
			metrics.DefaultedLoanCount++
		}

		if loan.Status == domain.LoanStatusOverdue || loan.Status == domain.LoanStatusDefaulted {
			metrics.TotalOverdue = metrics.TotalOverdue.Add(RemainingBalance(loan, byLoan[loan.ID]))
		}
	}

	for _, payment := range payments {
		if utils.SameCalendarMonth(payment.Date, today) {
			metrics.TotalReceivedThisMonth = metrics.TotalReceivedThisMonth.Add(payment.Amount)
		}
	}

	return metrics
}

// OverdueLoans filters to loans classified overdue or defaulted.
func OverdueLoans(loans []domain.Loan) []domain.Loan {
	overdue := make([]domain.Loan, 0)
	for _, loan := range loans {
		if loan.Status == domain.LoanStatusOverdue || loan.Status == domain.LoanStatusDefaulted {
			overdue = append(overdue, loan)
		}
	}
	return overdue
}

// UpcomingDueLoans filters to active loans whose schedule's next payment
// date falls within [today, today+horizonDays] inclusive. Loans without a
// schedule record are excluded even if otherwise due soon.
func UpcomingDueLoans(loans []domain.Loan, horizonDays int, today time.Time) []domain.Loan {
	upcoming := make([]domain.Loan, 0)
	for _, loan := range loans {
		if loan.Status != domain.LoanStatusActive || loan.Schedule == nil {
			continue
		}
		if utils.WithinDays(loan.Schedule.NextPaymentDate, today, horizonDays) {
			upcoming = append(upcoming, loan)
		}
	}
	return upcoming
}

func paymentsByLoan(payments []domain.Payment) map[string][]domain.Payment {
	grouped := make(map[string][]domain.Payment, len(payments))
	for _, p := range payments {
		grouped[p.LoanID] = append(grouped[p.LoanID], p)
	}
	return grouped
}
