package services

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lendtrack/lendtrack-api/internal/config"
	"github.com/lendtrack/lendtrack-api/internal/jobs"
	"github.com/lendtrack/lendtrack-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth           *AuthService
	Borrower       *BorrowerService
	Loan           *LoanService
	Payment        *PaymentService
	Advance        *AdvanceService
	Reconciliation *ReconciliationService
	Analytics      *AnalyticsService
	Export         *ExportService
	Import         *ImportService
	Backup         *BackupService
	Sync           *SyncService
	Notification   *NotificationService
	Audit          *AuditService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, rdb *redis.Client, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	auditSvc := NewAuditService(db)
	reconcileSvc := NewReconciliationService(repos.Loan, repos.Payment, notificationSvc, cfg.GracePeriodDays)

	return &Services{
		Auth:           NewAuthService(repos.User, cfg),
		Borrower:       NewBorrowerService(repos.Borrower, repos.Loan, repos.Advance),
		Loan:           NewLoanService(repos.Loan, repos.Borrower, repos.Payment, reconcileSvc, auditSvc, worker),
		Payment:        NewPaymentService(repos.Payment, repos.Loan, reconcileSvc, worker),
		Advance:        NewAdvanceService(repos.Advance, repos.Borrower, auditSvc),
		Reconciliation: reconcileSvc,
		Analytics:      NewAnalyticsService(repos.Loan, repos.Payment, repos.Advance, rdb, cfg.UpcomingWindowDays),
		Export:         NewExportService(repos.Loan, repos.Payment),
		Import:         NewImportService(repos.Borrower, repos.Loan, reconcileSvc, worker),
		Backup:         NewBackupService(repos, reconcileSvc),
		Sync:           NewSyncService(repos, reconcileSvc, auditSvc),
		Notification:   notificationSvc,
		Audit:          auditSvc,
	}
}
