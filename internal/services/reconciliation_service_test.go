package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/pkg/logger"
)

func init() {
	logger.Setup("test", "error")
}

// Mock LoanRepository (embedding to avoid implementing all methods)
type mockLoanRepository struct {
	repository.LoanRepository
	mockFindAll         func(ctx context.Context) ([]models.Loan, error)
	mockApplyStatusDiff func(ctx context.Context, updated []models.Loan) error
	mockCreate          func(ctx context.Context, loan *models.Loan) error
}

func (m *mockLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, loan)
	}
	return nil
}

func (m *mockLoanRepository) FindAll(ctx context.Context) ([]models.Loan, error) {
	if m.mockFindAll != nil {
		return m.mockFindAll(ctx)
	}
	return nil, nil
}

func (m *mockLoanRepository) ApplyStatusDiff(ctx context.Context, updated []models.Loan) error {
	if m.mockApplyStatusDiff != nil {
		return m.mockApplyStatusDiff(ctx, updated)
	}
	return nil
}

// Mock PaymentRepository
type mockPaymentRepository struct {
	repository.PaymentRepository
	mockFindAll func(ctx context.Context) ([]models.Payment, error)
}

func (m *mockPaymentRepository) FindAll(ctx context.Context) ([]models.Payment, error) {
	if m.mockFindAll != nil {
		return m.mockFindAll(ctx)
	}
	return nil, nil
}

// Mock NotificationRepository
type mockNotificationRepository struct {
	repository.NotificationRepository
	mockCreate func(ctx context.Context, notification *models.Notification) error
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, notification)
	}
	return nil
}

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	mockFindAll func(ctx context.Context) ([]models.User, error)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	if m.mockFindAll != nil {
		return m.mockFindAll(ctx)
	}
	return nil, nil
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func overdueTestLoan() models.Loan {
	return models.Loan{
		ID:        uuid.New(),
		Principal: mustDecimal("1000"),
		IssueDate: time.Now().AddDate(-1, 0, 0),
		DueDate:   time.Now().AddDate(0, 0, -10),
		Status:    models.LoanStatusActive,
	}
}

func TestReconciliationRunAppliesDiff(t *testing.T) {
	loan := overdueTestLoan()

	var applied []models.Loan
	loanRepo := &mockLoanRepository{
		mockFindAll: func(ctx context.Context) ([]models.Loan, error) {
			return []models.Loan{loan}, nil
		},
		mockApplyStatusDiff: func(ctx context.Context, updated []models.Loan) error {
			applied = updated
			return nil
		},
	}
	paymentRepo := &mockPaymentRepository{}
	notificationSvc := NewNotificationService(&mockNotificationRepository{}, &mockUserRepository{})

	svc := NewReconciliationService(loanRepo, paymentRepo, notificationSvc, 30)
	changed, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{loan.ID}, changed)
	require.Len(t, applied, 1)
	assert.Equal(t, models.LoanStatusOverdue, applied[0].Status)
}

func TestReconciliationRunNoChangesWritesNothing(t *testing.T) {
	loan := overdueTestLoan()
	loan.Status = models.LoanStatusOverdue
	loan.DueDate = time.Now().AddDate(0, 0, -10)

	diffCalled := false
	loanRepo := &mockLoanRepository{
		mockFindAll: func(ctx context.Context) ([]models.Loan, error) {
			return []models.Loan{loan}, nil
		},
		mockApplyStatusDiff: func(ctx context.Context, updated []models.Loan) error {
			diffCalled = true
			return nil
		},
	}
	notificationSvc := NewNotificationService(&mockNotificationRepository{}, &mockUserRepository{})

	svc := NewReconciliationService(loanRepo, &mockPaymentRepository{}, notificationSvc, 30)
	changed, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.False(t, diffCalled, "a consistent set must not be rewritten")
}

func TestReconciliationRunNotifiesActiveUsers(t *testing.T) {
	loan := overdueTestLoan()

	var created []models.Notification
	notifRepo := &mockNotificationRepository{
		mockCreate: func(ctx context.Context, n *models.Notification) error {
			created = append(created, *n)
			return nil
		},
	}
	userRepo := &mockUserRepository{
		mockFindAll: func(ctx context.Context) ([]models.User, error) {
			return []models.User{
				{ID: uuid.New(), Status: models.StatusActive},
				{ID: uuid.New(), Status: models.StatusInactive},
			}, nil
		},
	}
	loanRepo := &mockLoanRepository{
		mockFindAll: func(ctx context.Context) ([]models.Loan, error) {
			return []models.Loan{loan}, nil
		},
	}

	svc := NewReconciliationService(loanRepo, &mockPaymentRepository{},
		NewNotificationService(notifRepo, userRepo), 30)
	_, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, created, 1, "inactive users are skipped")
	assert.Equal(t, models.NotificationTypeLoanOverdue, *created[0].NotificationType)
}

func TestReconciliationRunRepositoryError(t *testing.T) {
	loanRepo := &mockLoanRepository{
		mockFindAll: func(ctx context.Context) ([]models.Loan, error) {
			return nil, errors.New("connection refused")
		},
	}
	notificationSvc := NewNotificationService(&mockNotificationRepository{}, &mockUserRepository{})

	svc := NewReconciliationService(loanRepo, &mockPaymentRepository{}, notificationSvc, 30)
	_, err := svc.Run(context.Background())

	assert.Error(t, err)
}

func TestReconciliationRunReachedPaidNotification(t *testing.T) {
	loan := overdueTestLoan()
	payments := []models.Payment{{
		ID:        uuid.New(),
		LoanID:    loan.ID,
		Date:      time.Now(),
		Amount:    mustDecimal("1000"),
		Principal: mustDecimal("1000"),
		Interest:  decimal.Zero,
	}}

	var created []models.Notification
	notifRepo := &mockNotificationRepository{
		mockCreate: func(ctx context.Context, n *models.Notification) error {
			created = append(created, *n)
			return nil
		},
	}
	userRepo := &mockUserRepository{
		mockFindAll: func(ctx context.Context) ([]models.User, error) {
			return []models.User{{ID: uuid.New(), Status: models.StatusActive}}, nil
		},
	}
	loanRepo := &mockLoanRepository{
		mockFindAll: func(ctx context.Context) ([]models.Loan, error) {
			return []models.Loan{loan}, nil
		},
	}
	paymentRepo := &mockPaymentRepository{
		mockFindAll: func(ctx context.Context) ([]models.Payment, error) {
			return payments, nil
		},
	}

	svc := NewReconciliationService(loanRepo, paymentRepo,
		NewNotificationService(notifRepo, userRepo), 30)
	changed, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, changed, 1)
	require.Len(t, created, 1)
	assert.Equal(t, models.NotificationTypeLoanPaid, *created[0].NotificationType)
}
