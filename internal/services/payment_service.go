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
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

// PaymentService records and removes payments. Every mutation re-triggers
// reconciliation; the payment ledger itself is append-only from the core's
// point of view.
type PaymentService struct {
	repo         repository.PaymentRepository
	loanRepo     repository.LoanRepository
	reconcileSvc *ReconciliationService
	worker       *jobs.Worker
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo repository.PaymentRepository, loanRepo repository.LoanRepository, reconcileSvc *ReconciliationService, worker *jobs.Worker) *PaymentService {
	return &PaymentService{
		repo:         repo,
		loanRepo:     loanRepo,
		reconcileSvc: reconcileSvc,
		worker:       worker,
	}
}

// RecordPaymentInput carries the fields accepted when recording a payment
type RecordPaymentInput struct {
	LoanID    uuid.UUID `json:"loan_id"`
	Date      string    `json:"date"`
	Amount    string    `json:"amount"`
	Principal string    `json:"principal"`
	Interest  string    `json:"interest"`
	Notes     *string   `json:"notes"`
}

// Record stores a payment against a loan, advances the loan's schedule by
// one installment and queues a reconciliation pass.
func (s *PaymentService) Record(ctx context.Context, input *RecordPaymentInput) (*models.Payment, error) {
	loan, err := s.loanRepo.FindByID(ctx, input.LoanID)
	if err != nil {
		return nil, ErrNotFound
	}

	amount, err := parseMoney(input.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidPayment
	}
	principal, err := parseMoney(input.Principal)
	if err != nil {
		return nil, err
	}
	interest, err := parseMoney(input.Interest)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	date, ok := reconcile.ParseFlexibleDate(input.Date, now)
	if !ok {
		logger.Warn("Unparseable payment date, falling back to today", "raw", input.Date)
	}

	payment := &models.Payment{
		ID:        uuid.New(),
		LoanID:    loan.ID,
		Date:      date,
		Amount:    amount,
		Principal: principal,
		Interest:  interest,
		Notes:     input.Notes,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	// A successful payment advances the schedule by exactly one period
	// from its prior next date; it is never recomputed from the issue
	// date, so extra payments cannot shift the cadence.
	if loan.HasSchedule() {
		advanced := reconcile.AdvanceSchedule(*loan.Schedule)
		if err := s.loanRepo.SaveSchedule(ctx, &advanced); err != nil {
			return nil, fmt.Errorf("failed to advance schedule: %w", err)
		}
	}

	s.triggerReconcile()
	return payment, nil
}

// FindByID returns a single payment
func (s *PaymentService) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByLoan returns all payments recorded against a loan, oldest first
func (s *PaymentService) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]models.Payment, error) {
	return s.repo.FindByLoan(ctx, loanID)
}

// List returns payments with pagination and filters
func (s *PaymentService) List(ctx context.Context, query *repository.ListQuery) ([]models.Payment, int64, error) {
	return s.repo.List(ctx, query)
}

// Delete removes a payment record. The schedule is not rolled back
// (schedules only advance), but the balance math picks up the changed
// payment set on the next pass.
func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	s.triggerReconcile()
	return nil
}

func (s *PaymentService) triggerReconcile() {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		_, err := s.reconcileSvc.Run(ctx)
		return err
	})
}
