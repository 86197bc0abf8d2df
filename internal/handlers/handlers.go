package handlers

import (
	"github.com/lendtrack/lendtrack-api/internal/jobs"
	"github.com/lendtrack/lendtrack-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	Borrower     *BorrowerHandler
	Loan         *LoanHandler
	Payment      *PaymentHandler
	Advance      *AdvanceHandler
	Analytics    *AnalyticsHandler
	Export       *ExportHandler
	Backup       *BackupHandler
	Sync         *SyncHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(worker),
		Auth:         NewAuthHandler(svcs.Auth),
		Borrower:     NewBorrowerHandler(svcs.Borrower),
		Loan:         NewLoanHandler(svcs.Loan, svcs.Reconciliation, svcs.Analytics),
		Payment:      NewPaymentHandler(svcs.Payment, svcs.Analytics),
		Advance:      NewAdvanceHandler(svcs.Advance),
		Analytics:    NewAnalyticsHandler(svcs.Analytics),
		Export:       NewExportHandler(svcs.Export, svcs.Import),
		Backup:       NewBackupHandler(svcs.Backup),
		Sync:         NewSyncHandler(svcs.Sync),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
	}
}
