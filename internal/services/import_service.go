package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/jobs"
	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/reconcile"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

// ImportResult summarizes a CSV import run
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
}

// ImportService loads loans from CSV files exported by other tools.
// Rows with unusable money values are skipped with a warning; dates that
// fail to parse fall back to today so a sloppy export never blocks the
// rest of the file.
type ImportService struct {
	borrowerRepo repository.BorrowerRepository
	loanRepo     repository.LoanRepository
	reconciler   *ReconciliationService
	worker       *jobs.Worker
}

func NewImportService(borrowerRepo repository.BorrowerRepository, loanRepo repository.LoanRepository, reconciler *ReconciliationService, worker *jobs.Worker) *ImportService {
	return &ImportService{
		borrowerRepo: borrowerRepo,
		loanRepo:     loanRepo,
		reconciler:   reconciler,
		worker:       worker,
	}
}

// LoansCSV imports loans from a CSV stream. Expected columns:
// borrower, principal, interest_rate, issue_date, due_date and optionally
// frequency, installments. A header row is detected and skipped.
func (s *ImportService) LoansCSV(ctx context.Context, data []byte) (*ImportResult, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	result := &ImportResult{}
	today := time.Now()
	line := 0

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line++
		if line == 1 && looksLikeHeader(record) {
			continue
		}
		if len(record) < 5 {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: expected at least 5 columns, got %d", line, len(record)))
			continue
		}

		if err := s.importLoanRow(ctx, record, today, line, result); err != nil {
			return nil, err
		}
	}

	if result.Imported > 0 {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			_, err := s.reconciler.Run(ctx)
			return err
		})
	}
	logger.Info("CSV import finished", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func (s *ImportService) importLoanRow(ctx context.Context, record []string, today time.Time, line int, result *ImportResult) error {
	name := strings.TrimSpace(record[0])
	if name == "" {
		result.Skipped++
		result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: empty borrower name", line))
		return nil
	}

	principal, err := parseMoney(record[1])
	if err != nil || !principal.IsPositive() {
		result.Skipped++
		result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: invalid principal %q", line, record[1]))
		return nil
	}
	rate, err := parseMoney(record[2])
	if err != nil || rate.IsNegative() {
		result.Skipped++
		result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: invalid interest rate %q", line, record[2]))
		return nil
	}

	issueDate, ok := reconcile.ParseFlexibleDate(record[3], today)
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: unparseable issue date %q, defaulted to today", line, record[3]))
	}
	dueDate, ok := reconcile.ParseFlexibleDate(record[4], today)
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: unparseable due date %q, defaulted to today", line, record[4]))
	}

	borrower, err := s.findOrCreateBorrower(ctx, name)
	if err != nil {
		return err
	}

	loan := &models.Loan{
		ID:           uuid.New(),
		BorrowerID:   borrower.ID,
		Principal:    principal,
		InterestRate: rate,
		IssueDate:    reconcile.DateOnly(issueDate),
		DueDate:      reconcile.DateOnly(dueDate),
		Status:       models.LoanStatusPending,
	}
	if len(record) >= 7 {
		if installments, err := strconv.Atoi(strings.TrimSpace(record[6])); err == nil && installments > 0 {
			loan.Schedule = &models.PaymentSchedule{
				ID:              uuid.New(),
				LoanID:          loan.ID,
				Frequency:       normalizeFrequency(record[5]),
				Installments:    installments,
				NextPaymentDate: reconcile.DateOnly(issueDate),
			}
		}
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return fmt.Errorf("creating imported loan: %w", err)
	}
	result.Imported++
	return nil
}

func (s *ImportService) findOrCreateBorrower(ctx context.Context, name string) (*models.Borrower, error) {
	borrower, err := s.borrowerRepo.FindByName(ctx, name)
	if err == nil {
		return borrower, nil
	}
	borrower = &models.Borrower{ID: uuid.New(), Name: name}
	if err := s.borrowerRepo.Create(ctx, borrower); err != nil {
		return nil, fmt.Errorf("creating borrower %q: %w", name, err)
	}
	return borrower, nil
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "borrower" || first == "borrower_name" || first == "name"
}

func normalizeFrequency(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.FrequencyWeekly:
		return models.FrequencyWeekly
	case models.FrequencyBiweekly:
		return models.FrequencyBiweekly
	case models.FrequencyQuarterly:
		return models.FrequencyQuarterly
	case models.FrequencyYearly:
		return models.FrequencyYearly
	case models.FrequencyCustom:
		return models.FrequencyCustom
	case models.FrequencyInterestOnly:
		return models.FrequencyInterestOnly
	default:
		return models.FrequencyMonthly
	}
}
