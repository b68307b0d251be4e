// Package csvport implements the sectioned CSV bulk import/export
// format. An export carries three labeled sections, [BORROWERS], [LOANS]
// and [PAYMENTS], each with a CSV header and one row per entity. Import
// fails closed: a missing section or a single bad row rejects the whole
// document.
package csvport

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanbuddy/loan-tracker/internal/domain"
	customError "github.com/loanbuddy/loan-tracker/pkg/errors"
)

const (
	sectionBorrowers = "[BORROWERS]"
	sectionLoans     = "[LOANS]"
	sectionPayments  = "[PAYMENTS]"

	dateLayout = "2006-01-02"
)

var (
	borrowerHeader = []string{"id", "name", "email", "phone", "created_at"}
	loanHeader     = []string{
		"id", "borrower_id", "borrower_name", "principal", "interest_rate",
		"issue_date", "due_date", "status", "frequency", "installments",
		"installment_amount", "next_payment_date", "notes", "created_at",
	}
	paymentHeader = []string{"id", "loan_id", "date", "amount", "principal", "interest", "notes", "created_at"}
)

// Export renders the portfolio in the sectioned CSV format.
func Export(borrowers []domain.Borrower, loans []domain.Loan, payments []domain.Payment) (string, error) {
	var sb strings.Builder

	sb.WriteString(sectionBorrowers + "\n")
	w := csv.NewWriter(&sb)
	if err := w.Write(borrowerHeader); err != nil {
		return "", err
	}
	for _, b := range borrowers {
		record := []string{b.ID, b.Name, b.Email, b.Phone, b.CreatedAt.UTC().Format(time.RFC3339)}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()

	sb.WriteString(sectionLoans + "\n")
	w = csv.NewWriter(&sb)
	if err := w.Write(loanHeader); err != nil {
		return "", err
	}
	for _, loan := range loans {
		nextPayment := ""
		if loan.Schedule != nil {
			nextPayment = loan.Schedule.NextPaymentDate.UTC().Format(dateLayout)
		}
		record := []string{
			loan.ID,
			loan.BorrowerID,
			loan.BorrowerName,
			loan.Principal.String(),
			loan.InterestRate.String(),
			loan.IssueDate.UTC().Format(dateLayout),
			loan.DueDate.UTC().Format(dateLayout),
			loan.Status,
			loan.Frequency,
			strconv.Itoa(loan.Installments),
			loan.InstallmentAmount.String(),
			nextPayment,
			loan.Notes,
			loan.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()

	sb.WriteString(sectionPayments + "\n")
	w = csv.NewWriter(&sb)
	if err := w.Write(paymentHeader); err != nil {
		return "", err
	}
	for _, p := range payments {
		record := []string{
			p.ID,
			p.LoanID,
			p.Date.UTC().Format(dateLayout),
			p.Amount.String(),
			p.Principal.String(),
			p.Interest.String(),
			p.Notes,
			p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()

	return sb.String(), nil
}

// Import parses a sectioned CSV document back into the three
// collections. Any structural or row-level problem rejects the whole
// document; nothing is partially applied.
func Import(data string) ([]domain.Borrower, []domain.Loan, []domain.Payment, error) {
	sections, err := splitSections(data)
	if err != nil {
		return nil, nil, nil, err
	}

	borrowers, err := parseBorrowers(sections[sectionBorrowers])
	if err != nil {
		return nil, nil, nil, err
	}

	loans, err := parseLoans(sections[sectionLoans])
	if err != nil {
		return nil, nil, nil, err
	}

	payments, err := parsePayments(sections[sectionPayments])
	if err != nil {
		return nil, nil, nil, err
	}

	// Referential integrity holds inside the document too.
	borrowerIDs := make(map[string]bool, len(borrowers))
	for _, b := range borrowers {
		borrowerIDs[b.ID] = true
	}
	for _, loan := range loans {
		if !borrowerIDs[loan.BorrowerID] {
			return nil, nil, nil, customError.WrapMalformedImport(
				fmt.Sprintf("loan %s references unknown borrower %s", loan.ID, loan.BorrowerID))
		}
	}
	loanIDs := make(map[string]bool, len(loans))
	for _, loan := range loans {
		loanIDs[loan.ID] = true
	}
	for _, p := range payments {
		if !loanIDs[p.LoanID] {
			return nil, nil, nil, customError.WrapMalformedImport(
				fmt.Sprintf("payment %s references unknown loan %s", p.ID, p.LoanID))
		}
	}

	return borrowers, loans, payments, nil
}

// splitSections cuts the document into its three labeled blocks. Section
// labels are only recognized between CSV records: a physical line inside
// a quoted field, even a blank one or one that looks like a label,
// belongs to the current record.
func splitSections(data string) (map[string][]string, error) {
	sections := map[string][]string{}
	current := ""
	openQuote := false

	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		if openQuote {
			sections[current] = append(sections[current], line)
			openQuote = scanQuotes(line, true)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case sectionBorrowers, sectionLoans, sectionPayments:
			current = trimmed
			sections[current] = []string{}
		case "":
			// blank lines between sections
		default:
			if current == "" {
				return nil, customError.WrapMalformedImport("data before first section label")
			}
			sections[current] = append(sections[current], line)
			openQuote = scanQuotes(line, false)
		}
	}

	for _, required := range []string{sectionBorrowers, sectionLoans, sectionPayments} {
		if _, ok := sections[required]; !ok {
			return nil, customError.WrapMalformedImport("missing required section " + required)
		}
	}
	return sections, nil
}

// scanQuotes reports whether a quoted CSV field is still open at the end
// of line, treating doubled quotes as escapes.
func scanQuotes(line string, open bool) bool {
	for i := 0; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		if open && i+1 < len(line) && line[i+1] == '"' {
			i++
			continue
		}
		open = !open
	}
	return open
}

func readRecords(lines []string, header []string, section string) ([][]string, error) {
	if len(lines) == 0 {
		return nil, customError.WrapMalformedImport("section " + section + " is missing its header row")
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	reader.FieldsPerRecord = len(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, customError.WrapMalformedImport(fmt.Sprintf("section %s: %v", section, err))
	}

	for i, col := range records[0] {
		if col != header[i] {
			return nil, customError.WrapMalformedImport(
				fmt.Sprintf("section %s: unexpected header column %q", section, col))
		}
	}
	return records[1:], nil
}

func parseBorrowers(lines []string) ([]domain.Borrower, error) {
	records, err := readRecords(lines, borrowerHeader, sectionBorrowers)
	if err != nil {
		return nil, err
	}

	borrowers := make([]domain.Borrower, 0, len(records))
	for _, rec := range records {
		if rec[0] == "" || rec[1] == "" {
			return nil, customError.WrapMalformedImport("borrower row missing id or name")
		}
		createdAt, err := time.Parse(time.RFC3339, rec[4])
		if err != nil {
			return nil, customError.WrapMalformedImport("borrower " + rec[0] + ": bad created_at")
		}
		borrowers = append(borrowers, domain.Borrower{
			ID:        rec[0],
			Name:      rec[1],
			Email:     rec[2],
			Phone:     rec[3],
			CreatedAt: createdAt,
		})
	}
	return borrowers, nil
}

func parseLoans(lines []string) ([]domain.Loan, error) {
	records, err := readRecords(lines, loanHeader, sectionLoans)
	if err != nil {
		return nil, err
	}

	loans := make([]domain.Loan, 0, len(records))
	for _, rec := range records {
		loan, err := parseLoanRecord(rec)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, nil
}

func parseLoanRecord(rec []string) (domain.Loan, error) {
	fail := func(field string) (domain.Loan, error) {
		return domain.Loan{}, customError.WrapMalformedImport("loan " + rec[0] + ": bad " + field)
	}

	if rec[0] == "" || rec[1] == "" {
		return domain.Loan{}, customError.WrapMalformedImport("loan row missing id or borrower_id")
	}

	principal, err := decimal.NewFromString(rec[3])
	if err != nil || principal.IsNegative() {
		return fail("principal")
	}
	rate, err := decimal.NewFromString(rec[4])
	if err != nil {
		return fail("interest_rate")
	}
	issueDate, err := time.Parse(dateLayout, rec[5])
	if err != nil {
		return fail("issue_date")
	}
	dueDate, err := time.Parse(dateLayout, rec[6])
	if err != nil {
		return fail("due_date")
	}
	if !domain.ValidStatus(rec[7]) {
		return fail("status")
	}
	if !domain.ValidFrequency(rec[8]) {
		return fail("frequency")
	}
	installments, err := strconv.Atoi(rec[9])
	if err != nil || installments < 0 {
		return fail("installments")
	}
	installmentAmount, err := decimal.NewFromString(rec[10])
	if err != nil {
		return fail("installment_amount")
	}
	createdAt, err := time.Parse(time.RFC3339, rec[13])
	if err != nil {
		return fail("created_at")
	}

	loan := domain.Loan{
		ID:                rec[0],
		BorrowerID:        rec[1],
		BorrowerName:      rec[2],
		Principal:         principal,
		InterestRate:      rate,
		IssueDate:         issueDate,
		DueDate:           dueDate,
		Status:            rec[7],
		Frequency:         rec[8],
		Installments:      installments,
		InstallmentAmount: installmentAmount,
		Notes:             rec[12],
		CreatedAt:         createdAt,
	}
	if rec[11] != "" {
		nextPayment, err := time.Parse(dateLayout, rec[11])
		if err != nil {
			return fail("next_payment_date")
		}
		loan.Schedule = &domain.PaymentSchedule{NextPaymentDate: nextPayment}
	}
	return loan, nil
}

func parsePayments(lines []string) ([]domain.Payment, error) {
	records, err := readRecords(lines, paymentHeader, sectionPayments)
	if err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(records))
	for _, rec := range records {
		fail := func(field string) ([]domain.Payment, error) {
			return nil, customError.WrapMalformedImport("payment " + rec[0] + ": bad " + field)
		}

		if rec[0] == "" || rec[1] == "" {
			return nil, customError.WrapMalformedImport("payment row missing id or loan_id")
		}
		date, err := time.Parse(dateLayout, rec[2])
		if err != nil {
			return fail("date")
		}
		amount, err := decimal.NewFromString(rec[3])
		if err != nil {
			return fail("amount")
		}
		principal, err := decimal.NewFromString(rec[4])
		if err != nil {
			return fail("principal")
		}
		interest, err := decimal.NewFromString(rec[5])
		if err != nil {
			return fail("interest")
		}
		createdAt, err := time.Parse(time.RFC3339, rec[7])
		if err != nil {
			return fail("created_at")
		}

		payments = append(payments, domain.Payment{
			ID:        rec[0],
			LoanID:    rec[1],
			Date:      date,
			Amount:    amount,
			Principal: principal,
			Interest:  interest,
			Notes:     rec[6],
			CreatedAt: createdAt,
		})
	}
	return payments, nil
}
