package domain

import "github.com/shopspring/decimal"

// DashboardMetrics is the portfolio-wide summary shown on the dashboard.
// It is recomputed on demand and never persisted.
type DashboardMetrics struct {
	TotalLoaned            decimal.Decimal `json:"total_loaned"`
	TotalInterestAccrued   decimal.Decimal `json:"total_interest_accrued"`
	TotalOverdue           decimal.Decimal `json:"total_overdue"`
	TotalBorrowers         int             `json:"total_borrowers"`
	ActiveLoanCount        int             `json:"active_loan_count"`
	PaidLoanCount          int             `json:"paid_loan_count"`
	OverdueLoanCount       int             `json:"overdue_loan_count"`
	DefaultedLoanCount     int             `json:"defaulted_loan_count"`
	TotalReceivedThisMonth decimal.Decimal `json:"total_received_this_month"`
}
