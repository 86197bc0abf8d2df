package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lendtrack/lendtrack-api/internal/reconcile"
	"github.com/lendtrack/lendtrack-api/internal/repository"
)

var loanExportHeader = []string{
	"borrower", "principal", "interest_rate", "issue_date", "due_date",
	"status", "total_paid", "total_interest", "remaining_balance",
}

var paymentExportHeader = []string{
	"borrower", "loan_id", "date", "amount", "principal", "interest", "notes",
}

// ExportService renders portfolio data as CSV or XLSX files
type ExportService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
}

func NewExportService(loanRepo repository.LoanRepository, paymentRepo repository.PaymentRepository) *ExportService {
	return &ExportService{loanRepo: loanRepo, paymentRepo: paymentRepo}
}

// LoansCSV exports every loan with its reconciled balance figures
func (s *ExportService) LoansCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.loanRows(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(loanExportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoansXLSX exports every loan with its reconciled balance figures as a
// spreadsheet with a single "Loans" sheet.
func (s *ExportService) LoansXLSX(ctx context.Context) ([]byte, error) {
	rows, err := s.loanRows(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Loans"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := make([]interface{}, len(loanExportHeader))
	for i, h := range loanExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PaymentsCSV exports every recorded payment
func (s *ExportService) PaymentsCSV(ctx context.Context) ([]byte, error) {
	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	borrowerByLoan := make(map[string]string, len(loans))
	for _, loan := range loans {
		borrowerByLoan[loan.ID.String()] = loan.Borrower.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(paymentExportHeader); err != nil {
		return nil, err
	}
	for _, p := range payments {
		notes := ""
		if p.Notes != nil {
			notes = *p.Notes
		}
		row := []string{
			borrowerByLoan[p.LoanID.String()],
			p.LoanID.String(),
			p.Date.Format(time.DateOnly),
			p.Amount.StringFixed(2),
			p.Principal.StringFixed(2),
			p.Interest.StringFixed(2),
			notes,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) loanRows(ctx context.Context) ([][]string, error) {
	loans, err := s.loanRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	byLoan := reconcile.GroupPayments(payments)

	rows := make([][]string, 0, len(loans))
	for _, loan := range loans {
		bal := reconcile.ComputeBalance(&loan, byLoan[loan.ID])
		rows = append(rows, []string{
			loan.Borrower.Name,
			loan.Principal.StringFixed(2),
			loan.InterestRate.StringFixed(2),
			loan.IssueDate.Format(time.DateOnly),
			loan.DueDate.Format(time.DateOnly),
			loan.Status,
			bal.TotalPaid.StringFixed(2),
			bal.TotalInterest.StringFixed(2),
			bal.Remaining.StringFixed(2),
		})
	}
	return rows, nil
}
