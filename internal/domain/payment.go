package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received against a loan. Amount is the full sum
// received; Principal and Interest are its components, tracked separately
// for reporting only.
type Payment struct {
	ID        string          `json:"id" db:"id"`
	LoanID    string          `json:"loan_id" db:"loan_id"`
	Date      time.Time       `json:"date" db:"date"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Principal decimal.Decimal `json:"principal" db:"principal"`
	Interest  decimal.Decimal `json:"interest" db:"interest"`
	Notes     string          `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type CreatePaymentRequest struct {
	LoanID    string          `json:"loan_id" validate:"required"`
	Date      time.Time       `json:"date" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Notes     string          `json:"notes"`
}

type UpdatePaymentRequest struct {
	Date      *time.Time       `json:"date,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Principal *decimal.Decimal `json:"principal,omitempty"`
	Interest  *decimal.Decimal `json:"interest,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}
