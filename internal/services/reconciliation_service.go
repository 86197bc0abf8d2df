package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/reconcile"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

// ReconciliationService drives the pure reconciliation core against the
// stored data set. It is invoked after every loan/payment mutation, after a
// sync merge and on the daily tick; because the core is pure and the diff is
// applied in one transaction, overlapping triggers converge to the same
// state.
type ReconciliationService struct {
	loanRepo        repository.LoanRepository
	paymentRepo     repository.PaymentRepository
	notificationSvc *NotificationService
	graceDays       int
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(loanRepo repository.LoanRepository, paymentRepo repository.PaymentRepository, notificationSvc *NotificationService, graceDays int) *ReconciliationService {
	return &ReconciliationService{
		loanRepo:        loanRepo,
		paymentRepo:     paymentRepo,
		notificationSvc: notificationSvc,
		graceDays:       graceDays,
	}
}

// Run loads the full snapshot, computes the status diff and persists it.
// Returns the ids of loans whose status changed. Re-running on an
// already-consistent set writes nothing.
func (s *ReconciliationService) Run(ctx context.Context) ([]uuid.UUID, error) {
	loans, err := s.loanRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	result := reconcile.Reconcile(
		loans,
		reconcile.GroupPayments(payments),
		time.Now(),
		reconcile.Options{GraceDays: s.graceDays},
	)

	for _, anomaly := range result.Anomalies {
		logger.Warn("Data quality anomaly", "detail", anomaly.String())
	}

	if result.Empty() {
		return nil, nil
	}

	if err := s.loanRepo.ApplyStatusDiff(ctx, result.Updated); err != nil {
		return nil, fmt.Errorf("failed to apply status diff: %w", err)
	}

	s.notifyChanges(ctx, result)

	changed := make([]uuid.UUID, 0, len(result.Updated))
	for _, loan := range result.Updated {
		changed = append(changed, loan.ID)
	}
	logger.Info("Reconciliation applied", "changed", len(changed))
	return changed, nil
}

// notifyChanges surfaces lifecycle transitions to users. A loan reaching
// paid is the signal the workflow layer listens for before offering the
// archive action; it never archives by itself.
func (s *ReconciliationService) notifyChanges(ctx context.Context, result reconcile.Result) {
	paid := make(map[uuid.UUID]bool, len(result.ReachedPaid))
	for _, id := range result.ReachedPaid {
		paid[id] = true
	}

	for _, loan := range result.Updated {
		var title, notifType string
		switch {
		case paid[loan.ID]:
			title = "Loan fully paid"
			notifType = models.NotificationTypeLoanPaid
		case loan.Status == models.LoanStatusOverdue:
			title = "Loan overdue"
			notifType = models.NotificationTypeLoanOverdue
		case loan.Status == models.LoanStatusDefaulted:
			title = "Loan defaulted"
			notifType = models.NotificationTypeLoanDefaulted
		default:
			continue
		}
		message := fmt.Sprintf("Loan %s is now %s", loan.ID, loan.Status)
		if err := s.notificationSvc.NotifyAll(ctx, title, message, notifType); err != nil {
			logger.Error("Failed to create notification", "loan_id", loan.ID, "error", err)
		}
	}
}
