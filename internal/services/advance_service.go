package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/reconcile"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/internal/statemachine"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

// AdvanceService handles short-term cash advances. Advances have no payment
// ledger: a single settle action flips them from active to paid.
type AdvanceService struct {
	repo         repository.AdvanceRepository
	borrowerRepo repository.BorrowerRepository
	auditSvc     *AuditService
}

// NewAdvanceService creates a new advance service
func NewAdvanceService(repo repository.AdvanceRepository, borrowerRepo repository.BorrowerRepository, auditSvc *AuditService) *AdvanceService {
	return &AdvanceService{
		repo:         repo,
		borrowerRepo: borrowerRepo,
		auditSvc:     auditSvc,
	}
}

// CreateAdvanceInput carries the fields accepted when issuing an advance
type CreateAdvanceInput struct {
	BorrowerID uuid.UUID `json:"borrower_id"`
	Amount     string    `json:"amount"`
	Fee        string    `json:"fee"`
	IssueDate  string    `json:"issue_date"`
	DueDate    string    `json:"due_date"`
}

// Create issues an advance to a borrower
func (s *AdvanceService) Create(ctx context.Context, input *CreateAdvanceInput) (*models.Advance, error) {
	if _, err := s.borrowerRepo.FindByID(ctx, input.BorrowerID); err != nil {
		return nil, ErrNotFound
	}

	amount, err := parseMoney(input.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("advance amount must be positive")
	}
	fee, err := parseMoney(input.Fee)
	if err != nil {
		return nil, err
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("advance fee cannot be negative")
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

	advance := &models.Advance{
		ID:         uuid.New(),
		BorrowerID: input.BorrowerID,
		Amount:     amount,
		Fee:        fee,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Status:     models.AdvanceStatusActive,
	}
	if err := s.repo.Create(ctx, advance); err != nil {
		return nil, fmt.Errorf("failed to create advance: %w", err)
	}
	return advance, nil
}

// Settle flips an active advance to paid through its state machine
func (s *AdvanceService) Settle(ctx context.Context, id uuid.UUID, actor uuid.UUID, ip string) (*models.Advance, error) {
	advance, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	fsm := statemachine.NewAdvanceFSM(advance)
	if err := fsm.Settle(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, advance); err != nil {
		return nil, fmt.Errorf("failed to persist settled advance: %w", err)
	}

	if err := s.auditSvc.Log(ctx, actor, "SETTLE", "Advance", advance.ID, "advance settled", ip); err != nil {
		logger.Error("Failed to write audit entry", "advance_id", advance.ID, "error", err)
	}
	return advance, nil
}

// FindByID returns a single advance
func (s *AdvanceService) FindByID(ctx context.Context, id uuid.UUID) (*models.Advance, error) {
	return s.repo.FindByID(ctx, id)
}

// FindAll returns every advance
func (s *AdvanceService) FindAll(ctx context.Context) ([]models.Advance, error) {
	return s.repo.FindAll(ctx)
}

// Overdue returns the advances that are active and past due, using the same
// predicate the loan queries use.
func (s *AdvanceService) Overdue(ctx context.Context) ([]models.Advance, error) {
	advances, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.OverdueAdvances(advances, time.Now()), nil
}
