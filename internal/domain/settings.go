package domain

import "github.com/shopspring/decimal"

// AppSettings holds the defaults used to pre-fill new loans. It never
// feeds the calculation engine.
type AppSettings struct {
	DefaultInterestRate     decimal.Decimal `json:"default_interest_rate"`
	DefaultPaymentFrequency string          `json:"default_payment_frequency"`
	DefaultInstallments     int             `json:"default_installments"`
	Currency                string          `json:"currency"`
}

type UpdateSettingsRequest struct {
	DefaultInterestRate     *decimal.Decimal `json:"default_interest_rate,omitempty"`
	DefaultPaymentFrequency *string          `json:"default_payment_frequency,omitempty" validate:"omitempty,oneof=weekly biweekly monthly quarterly yearly custom"`
	DefaultInstallments     *int             `json:"default_installments,omitempty" validate:"omitempty,gt=0"`
	Currency                *string          `json:"currency,omitempty"`
}
