package domain

import "time"

// PaymentSchedule is the optional schedule record embedded on a loan.
// It holds only the next expected payment date; the system does not
// generate amortization schedules.
type PaymentSchedule struct {
	NextPaymentDate time.Time `json:"next_payment_date"`
}
