package csvport

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
)

func fixture() ([]domain.Borrower, []domain.Loan, []domain.Payment) {
	createdAt := time.Date(2025, time.January, 10, 8, 30, 0, 0, time.UTC)

	borrowers := []domain.Borrower{
		{ID: "b1", Name: "Ana Souza", Email: "ana@example.com", Phone: "+55 11 99999-0000", CreatedAt: createdAt},
		{ID: "b2", Name: "Bruno, o Segundo", CreatedAt: createdAt},
	}

	loans := []domain.Loan{
		{
			ID:                "l1",
			BorrowerID:        "b1",
			BorrowerName:      "Ana Souza",
			Principal:         decimal.RequireFromString("1000.50"),
			InterestRate:      decimal.RequireFromString("5.25"),
			IssueDate:         time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			DueDate:           time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			Status:            domain.LoanStatusActive,
			Frequency:         domain.FrequencyMonthly,
			Installments:      6,
			InstallmentAmount: decimal.RequireFromString("175.50"),
			Schedule:          &domain.PaymentSchedule{NextPaymentDate: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)},
			Notes:             `quoted "notes", with commas`,
			CreatedAt:         createdAt,
		},
		{
			ID:           "l2",
			BorrowerID:   "b2",
			BorrowerName: "Bruno, o Segundo",
			Principal:    decimal.NewFromInt(500),
			InterestRate: decimal.NewFromInt(0),
			IssueDate:    time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
			DueDate:      time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			Status:       domain.LoanStatusDefaulted,
			Frequency:    domain.FrequencyCustom,
			CreatedAt:    createdAt,
		},
	}

	payments := []domain.Payment{
		{
			ID:        "p1",
			LoanID:    "l1",
			Date:      time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			Amount:    decimal.RequireFromString("175.50"),
			Principal: decimal.RequireFromString("150.00"),
			Interest:  decimal.RequireFromString("25.50"),
			Notes:     "first installment",
			CreatedAt: createdAt,
		},
	}

	return borrowers, loans, payments
}

func TestRoundTrip(t *testing.T) {
	borrowers, loans, payments := fixture()

	data, err := Export(borrowers, loans, payments)
	require.NoError(t, err)

	gotBorrowers, gotLoans, gotPayments, err := Import(data)
	require.NoError(t, err)

	assert.Equal(t, borrowers, gotBorrowers)

	require.Len(t, gotPayments, len(payments))
	for i, want := range payments {
		got := gotPayments[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.LoanID, got.LoanID)
		assert.True(t, want.Date.Equal(got.Date))
		assert.True(t, want.Amount.Equal(got.Amount))
		assert.True(t, want.Principal.Equal(got.Principal))
		assert.True(t, want.Interest.Equal(got.Interest))
		assert.Equal(t, want.Notes, got.Notes)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	}

	require.Len(t, gotLoans, len(loans))
	for i, want := range loans {
		got := gotLoans[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.BorrowerID, got.BorrowerID)
		assert.Equal(t, want.BorrowerName, got.BorrowerName)
		assert.True(t, want.Principal.Equal(got.Principal))
		assert.True(t, want.InterestRate.Equal(got.InterestRate))
		assert.True(t, want.IssueDate.Equal(got.IssueDate))
		assert.True(t, want.DueDate.Equal(got.DueDate))
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Frequency, got.Frequency)
		assert.Equal(t, want.Installments, got.Installments)
		assert.Equal(t, want.Notes, got.Notes)
		if want.Schedule == nil {
			assert.Nil(t, got.Schedule)
		} else {
			require.NotNil(t, got.Schedule)
			assert.True(t, want.Schedule.NextPaymentDate.Equal(got.Schedule.NextPaymentDate))
		}
	}
}

func TestRoundTripMultilineNotes(t *testing.T) {
	borrowers, loans, payments := fixture()
	// Embedded blank lines and label-looking lines must survive inside
	// quoted fields.
	loans[0].Notes = "line one\n\nline two"
	payments[0].Notes = "before\n[PAYMENTS]\nafter"

	data, err := Export(borrowers, loans, payments)
	require.NoError(t, err)

	_, gotLoans, gotPayments, err := Import(data)
	require.NoError(t, err)

	require.Len(t, gotLoans, len(loans))
	assert.Equal(t, "line one\n\nline two", gotLoans[0].Notes)
	require.Len(t, gotPayments, len(payments))
	assert.Equal(t, "before\n[PAYMENTS]\nafter", gotPayments[0].Notes)
}

func TestExportContainsAllSections(t *testing.T) {
	data, err := Export(nil, nil, nil)
	require.NoError(t, err)

	assert.Contains(t, data, "[BORROWERS]")
	assert.Contains(t, data, "[LOANS]")
	assert.Contains(t, data, "[PAYMENTS]")
}

func TestImportEmptyPortfolio(t *testing.T) {
	data, err := Export(nil, nil, nil)
	require.NoError(t, err)

	borrowers, loans, payments, err := Import(data)
	require.NoError(t, err)
	assert.Empty(t, borrowers)
	assert.Empty(t, loans)
	assert.Empty(t, payments)
}

func TestImportRejectsMalformedData(t *testing.T) {
	borrowers, loans, payments := fixture()
	valid, err := Export(borrowers, loans, payments)
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing loans section",
			data: strings.Replace(valid, "[LOANS]", "", 1),
		},
		{
			name: "data before first section",
			data: "stray line\n" + valid,
		},
		{
			name: "unparsable principal",
			data: strings.Replace(valid, "1000.5,", "not-a-number,", 1),
		},
		{
			name: "unknown status",
			data: strings.Replace(valid, ",defaulted,", ",exploded,", 1),
		},
		{
			name: "unknown frequency",
			data: strings.Replace(valid, ",custom,", ",hourly,", 1),
		},
		{
			name: "loan references missing borrower",
			data: strings.Replace(valid, "l2,b2,", "l2,ghost,", 1),
		},
		{
			name: "payment references missing loan",
			data: strings.Replace(valid, "p1,l1,", "p1,ghost,", 1),
		},
		{
			name: "empty document",
			data: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Import(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, customError.ErrMalformedImport)
		})
	}
}

func TestImportRejectsNegativePrincipal(t *testing.T) {
	borrowers, loans, payments := fixture()
	loans[1].Principal = decimal.NewFromInt(-500)

	data, err := Export(borrowers, loans, payments)
	require.NoError(t, err)

	_, _, _, err = Import(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, customError.ErrMalformedImport)
}
