package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/jobs"
	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/reconcile"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/internal/statemachine"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

// LoanService handles loan lifecycle operations
type LoanService struct {
	repo         repository.LoanRepository
	borrowerRepo repository.BorrowerRepository
	paymentRepo  repository.PaymentRepository
	reconcileSvc *ReconciliationService
	auditSvc     *AuditService
	worker       *jobs.Worker
}

// NewLoanService creates a new loan service
func NewLoanService(repo repository.LoanRepository, borrowerRepo repository.BorrowerRepository, paymentRepo repository.PaymentRepository, reconcileSvc *ReconciliationService, auditSvc *AuditService, worker *jobs.Worker) *LoanService {
	return &LoanService{
		repo:         repo,
		borrowerRepo: borrowerRepo,
		paymentRepo:  paymentRepo,
		reconcileSvc: reconcileSvc,
		auditSvc:     auditSvc,
		worker:       worker,
	}
}

// CreateLoanInput carries the fields accepted at origination. Dates arrive
// as text because imported and synced records use several formats.
type CreateLoanInput struct {
	BorrowerID   uuid.UUID `json:"borrower_id"`
	Principal    string    `json:"principal"`
	InterestRate string    `json:"interest_rate"`
	IssueDate    string    `json:"issue_date"`
	DueDate      string    `json:"due_date"`
	Notes        *string   `json:"notes"`

	Schedule *ScheduleInput `json:"schedule"`
}

// ScheduleInput configures an optional payment schedule at origination
type ScheduleInput struct {
	Frequency          string  `json:"frequency"`
	Installments       int     `json:"installments"`
	InstallmentAmount  *string `json:"installment_amount"`
	FirstPaymentDate   string  `json:"first_payment_date"`
	CustomIntervalDays *int    `json:"custom_interval_days"`
}

// Create originates a loan and runs a reconciliation pass so its initial
// status is derived, not assumed.
func (s *LoanService) Create(ctx context.Context, input *CreateLoanInput) (*models.Loan, error) {
	if _, err := s.borrowerRepo.FindByID(ctx, input.BorrowerID); err != nil {
		return nil, ErrNotFound
	}

	principal, err := parseMoney(input.Principal)
	if err != nil {
		return nil, fmt.Errorf("invalid principal: %w", err)
	}
	if principal.IsNegative() {
		return nil, fmt.Errorf("principal cannot be negative")
	}
	rate, err := parseMoney(input.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("invalid interest rate: %w", err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("interest rate cannot be negative")
	}

	now := time.Now()
	issueDate, ok := reconcile.ParseFlexibleDate(input.IssueDate, now)
	if !ok {
		logger.Warn("Unparseable issue date, falling back to today", "raw", input.IssueDate)
	}
	dueDate, ok := reconcile.ParseFlexibleDate(input.DueDate, now)
	if !ok {
		logger.Warn("Unparseable due date, falling back to today", "raw", input.DueDate)
	}

	loan := &models.Loan{
		ID:           uuid.New(),
		BorrowerID:   input.BorrowerID,
		Principal:    principal,
		InterestRate: rate,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Status:       models.LoanStatusPending,
		Notes:        input.Notes,
	}

	if input.Schedule != nil {
		schedule, err := s.buildSchedule(loan.ID, input.Schedule, now)
		if err != nil {
			return nil, err
		}
		loan.Schedule = schedule
	}

	if err := s.repo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	s.triggerReconcile()
	return loan, nil
}

func (s *LoanService) buildSchedule(loanID uuid.UUID, input *ScheduleInput, now time.Time) (*models.PaymentSchedule, error) {
	if input.Installments <= 0 {
		return nil, fmt.Errorf("schedule installments must be positive")
	}
	first, ok := reconcile.ParseFlexibleDate(input.FirstPaymentDate, now)
	if !ok {
		logger.Warn("Unparseable first payment date, falling back to today", "raw", input.FirstPaymentDate)
	}

	schedule := &models.PaymentSchedule{
		ID:                 uuid.New(),
		LoanID:             loanID,
		Frequency:          input.Frequency,
		Installments:       input.Installments,
		NextPaymentDate:    first,
		CustomIntervalDays: input.CustomIntervalDays,
	}
	if input.InstallmentAmount != nil {
		amount, err := parseMoney(*input.InstallmentAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid installment amount: %w", err)
		}
		schedule.InstallmentAmount = &amount
	}
	return schedule, nil
}

// FindByID returns a loan with its borrower, schedule and payments
func (s *LoanService) FindByID(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	return s.repo.FindByIDWithDetails(ctx, id)
}

// List returns loans with pagination and filters
func (s *LoanService) List(ctx context.Context, query *repository.ListQuery) ([]models.Loan, int64, error) {
	return s.repo.List(ctx, query)
}

// BuildResponse fills a loan response with the core's balance figures
func (s *LoanService) BuildResponse(ctx context.Context, loan *models.Loan) (*models.LoanResponse, error) {
	payments, err := s.paymentRepo.FindByLoan(ctx, loan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	balance := reconcile.ComputeBalance(loan, payments)

	resp := loan.ToResponse()
	resp.TotalPaid = balance.TotalPaid
	resp.TotalInterest = balance.TotalInterest
	resp.RemainingBalance = balance.Remaining
	return &resp, nil
}

// Projection returns the next expected payment for a loan
func (s *LoanService) Projection(ctx context.Context, id uuid.UUID) (*reconcile.Projection, error) {
	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	p := reconcile.Project(loan, time.Now())
	return &p, nil
}

// Archive moves a paid loan into the terminal archived state through the
// archive gate. The call is explicit and audited; it is never inferred from
// balance math, and an ineligible loan is returned to the caller unchanged
// with statemachine.ErrNotEligible.
func (s *LoanService) Archive(ctx context.Context, id uuid.UUID, actor uuid.UUID, ip string) (*models.Loan, error) {
	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	gate := statemachine.NewLoanFSM(loan)
	if err := gate.Archive(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to persist archived loan: %w", err)
	}

	if err := s.auditSvc.Log(ctx, actor, "ARCHIVE", "Loan", loan.ID, "loan archived after full repayment", ip); err != nil {
		logger.Error("Failed to write audit entry", "loan_id", loan.ID, "error", err)
	}

	return loan, nil
}

// Update changes the editable loan fields (not status, which stays derived)
func (s *LoanService) Update(ctx context.Context, id uuid.UUID, notes *string, dueDate string) (*models.Loan, error) {
	loan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if notes != nil {
		loan.Notes = notes
	}
	if dueDate != "" {
		parsed, ok := reconcile.ParseFlexibleDate(dueDate, loan.DueDate)
		if !ok {
			logger.Warn("Unparseable due date on update, keeping previous", "raw", dueDate)
		}
		loan.DueDate = parsed
	}
	if err := s.repo.Update(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}
	s.triggerReconcile()
	return loan, nil
}

// Delete removes a loan and its payments, then reconciles
func (s *LoanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	s.triggerReconcile()
	return nil
}

// triggerReconcile queues a reconciliation pass after a mutation. The pass
// is idempotent, so overlapping triggers are harmless.
func (s *LoanService) triggerReconcile() {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		_, err := s.reconcileSvc.Run(ctx)
		return err
	})
}
