package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan lifecycle statuses. Status is always derived from the loan terms
// and its payments; it is never set independently except for the
// mark-paid-on-payment override applied when a payment is recorded.
const (
	LoanStatusActive    = "active"
	LoanStatusPaid      = "paid"
	LoanStatusOverdue   = "overdue"
	LoanStatusDefaulted = "defaulted"
)

// Payment frequencies.
const (
	FrequencyWeekly    = "weekly"
	FrequencyBiweekly  = "biweekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
	FrequencyCustom    = "custom"
)

// ValidStatus reports whether s is a known loan status.
func ValidStatus(s string) bool {
	switch s {
	case LoanStatusActive, LoanStatusPaid, LoanStatusOverdue, LoanStatusDefaulted:
		return true
	}
	return false
}

// ValidFrequency reports whether f is a known payment frequency.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// Loan represents a loan extended to a borrower. BorrowerName is a
// denormalized copy of the borrower's display name, re-synchronized
// whenever the borrower reference changes.
type Loan struct {
	ID                string           `json:"id" db:"id"`
	BorrowerID        string           `json:"borrower_id" db:"borrower_id"`
	BorrowerName      string           `json:"borrower_name" db:"borrower_name"`
	Principal         decimal.Decimal  `json:"principal" db:"principal"`
	InterestRate      decimal.Decimal  `json:"interest_rate" db:"interest_rate"`
	IssueDate         time.Time        `json:"issue_date" db:"issue_date"`
	DueDate           time.Time        `json:"due_date" db:"due_date"`
	Status            string           `json:"status" db:"status"`
	Frequency         string           `json:"frequency" db:"frequency"`
	Installments      int              `json:"installments,omitempty" db:"installments"`
	InstallmentAmount decimal.Decimal  `json:"installment_amount" db:"installment_amount"`
	Schedule          *PaymentSchedule `json:"payment_schedule,omitempty"`
	Notes             string           `json:"notes,omitempty" db:"notes"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	BorrowerID        string          `json:"borrower_id" validate:"required"`
	Principal         decimal.Decimal `json:"principal" validate:"required"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	IssueDate         time.Time       `json:"issue_date" validate:"required"`
	DueDate           time.Time       `json:"due_date" validate:"required"`
	Frequency         string          `json:"frequency" validate:"required,oneof=weekly biweekly monthly quarterly yearly custom"`
	Installments      int             `json:"installments" validate:"omitempty,gt=0"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	NextPaymentDate   *time.Time      `json:"next_payment_date,omitempty"`
	Notes             string          `json:"notes"`
}

type UpdateLoanRequest struct {
	BorrowerID        *string          `json:"borrower_id,omitempty"`
	Principal         *decimal.Decimal `json:"principal,omitempty"`
	InterestRate      *decimal.Decimal `json:"interest_rate,omitempty"`
	IssueDate         *time.Time       `json:"issue_date,omitempty"`
	DueDate           *time.Time       `json:"due_date,omitempty"`
	Frequency         *string          `json:"frequency,omitempty" validate:"omitempty,oneof=weekly biweekly monthly quarterly yearly custom"`
	Installments      *int             `json:"installments,omitempty" validate:"omitempty,gt=0"`
	InstallmentAmount *decimal.Decimal `json:"installment_amount,omitempty"`
	NextPaymentDate   *time.Time       `json:"next_payment_date,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// LoanMetrics summarizes a single loan's financial position.
type LoanMetrics struct {
	TotalPrincipal   decimal.Decimal `json:"total_principal"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}
