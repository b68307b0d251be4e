package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrBorrowerNotFound = errors.New("borrower not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrBorrowerHasLoans = errors.New("borrower has loans and cannot be deleted")
	ErrMalformedImport  = errors.New("import data is malformed")
	ErrInvalidEntity    = errors.New("entity violates data model invariants")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeBorrowerNotFound = "BORROWER_NOT_FOUND"
	ErrCodeLoanNotFound     = "LOAN_NOT_FOUND"
	ErrCodePaymentNotFound  = "PAYMENT_NOT_FOUND"
	ErrCodeBorrowerHasLoans = "BORROWER_HAS_LOANS"
	ErrCodeMalformedImport  = "MALFORMED_IMPORT"
	ErrCodeInvalidEntity    = "INVALID_ENTITY"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeCacheError       = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapBorrowerNotFound(borrowerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeBorrowerNotFound,
		fmt.Sprintf("Borrower with ID %s not found", borrowerID),
		ErrBorrowerNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapBorrowerHasLoans(borrowerID string, loanCount int) *BusinessError {
	return NewBusinessError(
		ErrCodeBorrowerHasLoans,
		fmt.Sprintf("Borrower with ID %s is referenced by %d loan(s) and cannot be deleted", borrowerID, loanCount),
		ErrBorrowerHasLoans,
	)
}

func WrapMalformedImport(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeMalformedImport,
		detail,
		ErrMalformedImport,
	)
}

func WrapInvalidEntity(detail string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidEntity,
		detail,
		ErrInvalidEntity,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
