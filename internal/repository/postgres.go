package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/loanbuddy/loan-tracker/internal/domain"
)

// postgresPersistence stores the portfolio in postgres via sqlx. The
// portfolio is small, so Save replaces all rows inside one transaction
// rather than diffing.
type postgresPersistence struct {
	db *sqlx.DB
}

func NewPostgresPersistence(db *sqlx.DB) Persistence {
	return &postgresPersistence{db: db}
}

// loanRow flattens the optional embedded schedule record for storage.
type loanRow struct {
	ID                string          `db:"id"`
	BorrowerID        string          `db:"borrower_id"`
	BorrowerName      string          `db:"borrower_name"`
	Principal         decimal.Decimal `db:"principal"`
	InterestRate      decimal.Decimal `db:"interest_rate"`
	IssueDate         time.Time       `db:"issue_date"`
	DueDate           time.Time       `db:"due_date"`
	Status            string          `db:"status"`
	Frequency         string          `db:"frequency"`
	Installments      int             `db:"installments"`
	InstallmentAmount decimal.Decimal `db:"installment_amount"`
	NextPaymentDate   sql.NullTime    `db:"next_payment_date"`
	Notes             string          `db:"notes"`
	CreatedAt         time.Time       `db:"created_at"`
}

func toLoanRow(loan domain.Loan) loanRow {
	row := loanRow{
		ID:                loan.ID,
		BorrowerID:        loan.BorrowerID,
		BorrowerName:      loan.BorrowerName,
		Principal:         loan.Principal,
		InterestRate:      loan.InterestRate,
		IssueDate:         loan.IssueDate,
		DueDate:           loan.DueDate,
		Status:            loan.Status,
		Frequency:         loan.Frequency,
		Installments:      loan.Installments,
		InstallmentAmount: loan.InstallmentAmount,
		Notes:             loan.Notes,
		CreatedAt:         loan.CreatedAt,
	}
	if loan.Schedule != nil {
		row.NextPaymentDate = sql.NullTime{Time: loan.Schedule.NextPaymentDate, Valid: true}
	}
	return row
}

func (r loanRow) toLoan() domain.Loan {
	loan := domain.Loan{
		ID:                r.ID,
		BorrowerID:        r.BorrowerID,
		BorrowerName:      r.BorrowerName,
		Principal:         r.Principal,
		InterestRate:      r.InterestRate,
		IssueDate:         r.IssueDate,
		DueDate:           r.DueDate,
		Status:            r.Status,
		Frequency:         r.Frequency,
		Installments:      r.Installments,
		InstallmentAmount: r.InstallmentAmount,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
	}
	if r.NextPaymentDate.Valid {
		loan.Schedule = &domain.PaymentSchedule{NextPaymentDate: r.NextPaymentDate.Time}
	}
	return loan
}

func (p *postgresPersistence) Load(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{
		Borrowers: []domain.Borrower{},
		Loans:     []domain.Loan{},
		Payments:  []domain.Payment{},
	}

	query := `
		SELECT id, name, email, phone, created_at
		FROM borrowers
		ORDER BY created_at
	`
	if err := p.db.SelectContext(ctx, &snapshot.Borrowers, query); err != nil {
		return nil, err
	}

	query = `
		SELECT id, borrower_id, borrower_name, principal, interest_rate, issue_date, due_date,
		       status, frequency, installments, installment_amount, next_payment_date, notes, created_at
		FROM loans
		ORDER BY created_at
	`
	var loanRows []loanRow
	if err := p.db.SelectContext(ctx, &loanRows, query); err != nil {
		return nil, err
	}
	for _, row := range loanRows {
		snapshot.Loans = append(snapshot.Loans, row.toLoan())
	}

	query = `
		SELECT id, loan_id, date, amount, principal, interest, notes, created_at
		FROM payments
		ORDER BY created_at
	`
	if err := p.db.SelectContext(ctx, &snapshot.Payments, query); err != nil {
		return nil, err
	}

	query = `
		SELECT default_interest_rate, default_payment_frequency, default_installments, currency
		FROM app_settings
		LIMIT 1
	`
	var settings struct {
		DefaultInterestRate     decimal.Decimal `db:"default_interest_rate"`
		DefaultPaymentFrequency string          `db:"default_payment_frequency"`
		DefaultInstallments     int             `db:"default_installments"`
		Currency                string          `db:"currency"`
	}
	err := p.db.GetContext(ctx, &settings, query)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if err == nil {
		snapshot.Settings = domain.AppSettings{
			DefaultInterestRate:     settings.DefaultInterestRate,
			DefaultPaymentFrequency: settings.DefaultPaymentFrequency,
			DefaultInstallments:     settings.DefaultInstallments,
			Currency:                settings.Currency,
		}
	}

	return snapshot, nil
}

func (p *postgresPersistence) Save(ctx context.Context, snapshot *Snapshot) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Children first so the foreign keys never dangle mid-transaction.
	for _, table := range []string{"payments", "loans", "borrowers", "app_settings"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO borrowers (id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, b := range snapshot.Borrowers {
		if _, err = tx.ExecContext(ctx, query, b.ID, b.Name, b.Email, b.Phone, b.CreatedAt); err != nil {
			return err
		}
	}

	query = `
		INSERT INTO loans (id, borrower_id, borrower_name, principal, interest_rate, issue_date, due_date,
		                   status, frequency, installments, installment_amount, next_payment_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	for _, loan := range snapshot.Loans {
		row := toLoanRow(loan)
		_, err = tx.ExecContext(ctx, query,
			row.ID,
			row.BorrowerID,
			row.BorrowerName,
			row.Principal,
			row.InterestRate,
			row.IssueDate,
			row.DueDate,
			row.Status,
			row.Frequency,
			row.Installments,
			row.InstallmentAmount,
			row.NextPaymentDate,
			row.Notes,
			row.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	query = `
		INSERT INTO payments (id, loan_id, date, amount, principal, interest, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, pay := range snapshot.Payments {
		_, err = tx.ExecContext(ctx, query,
			pay.ID,
			pay.LoanID,
			pay.Date,
			pay.Amount,
			pay.Principal,
			pay.Interest,
			pay.Notes,
			pay.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	query = `
		INSERT INTO app_settings (default_interest_rate, default_payment_frequency, default_installments, currency)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, query,
		snapshot.Settings.DefaultInterestRate,
		snapshot.Settings.DefaultPaymentFrequency,
		snapshot.Settings.DefaultInstallments,
		snapshot.Settings.Currency,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
