package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lendtrack/lendtrack-api/internal/jobs"
	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/repository"
)

// Mock BorrowerRepository
type mockBorrowerRepository struct {
	repository.BorrowerRepository
	mockFindByName func(ctx context.Context, name string) (*models.Borrower, error)
	mockCreate     func(ctx context.Context, borrower *models.Borrower) error
}

func (m *mockBorrowerRepository) FindByName(ctx context.Context, name string) (*models.Borrower, error) {
	if m.mockFindByName != nil {
		return m.mockFindByName(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBorrowerRepository) Create(ctx context.Context, borrower *models.Borrower) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, borrower)
	}
	return nil
}

func newImportServiceForTest(t *testing.T, borrowerRepo repository.BorrowerRepository, loanRepo repository.LoanRepository) *ImportService {
	t.Helper()
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)
	reconciler := NewReconciliationService(&mockLoanRepository{}, &mockPaymentRepository{},
		NewNotificationService(&mockNotificationRepository{}, &mockUserRepository{}), 30)
	return NewImportService(borrowerRepo, loanRepo, reconciler, worker)
}

func TestImportLoansCSVAssignsIDs(t *testing.T) {
	var borrowers []models.Borrower
	borrowerRepo := &mockBorrowerRepository{
		mockCreate: func(ctx context.Context, b *models.Borrower) error {
			borrowers = append(borrowers, *b)
			return nil
		},
	}
	var loans []models.Loan
	loanRepo := &mockLoanRepository{
		mockCreate: func(ctx context.Context, l *models.Loan) error {
			loans = append(loans, *l)
			return nil
		},
	}
	svc := newImportServiceForTest(t, borrowerRepo, loanRepo)

	csvData := []byte("borrower,principal,interest_rate,issue_date,due_date\n" +
		"Alice,1000,12,2026-01-01,2026-12-31\n" +
		"Bob,500,10,2026-02-01,2026-11-30\n")

	result, err := svc.LoansCSV(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Zero(t, result.Skipped)

	require.Len(t, borrowers, 2)
	assert.NotEqual(t, uuid.Nil, borrowers[0].ID)
	assert.NotEqual(t, uuid.Nil, borrowers[1].ID)
	assert.NotEqual(t, borrowers[0].ID, borrowers[1].ID)

	require.Len(t, loans, 2)
	assert.NotEqual(t, uuid.Nil, loans[0].ID)
	assert.NotEqual(t, uuid.Nil, loans[1].ID)
	assert.NotEqual(t, loans[0].ID, loans[1].ID)
	assert.Equal(t, borrowers[0].ID, loans[0].BorrowerID)
	assert.Equal(t, borrowers[1].ID, loans[1].BorrowerID)
}

func TestImportLoansCSVScheduleLinkedToLoan(t *testing.T) {
	var loans []models.Loan
	loanRepo := &mockLoanRepository{
		mockCreate: func(ctx context.Context, l *models.Loan) error {
			loans = append(loans, *l)
			return nil
		},
	}
	svc := newImportServiceForTest(t, &mockBorrowerRepository{}, loanRepo)

	csvData := []byte("Alice,1200,10,2026-01-01,2026-12-31,monthly,12\n")

	result, err := svc.LoansCSV(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	require.Len(t, loans, 1)
	require.NotNil(t, loans[0].Schedule)
	assert.NotEqual(t, uuid.Nil, loans[0].Schedule.ID)
	assert.Equal(t, loans[0].ID, loans[0].Schedule.LoanID)
	assert.Equal(t, models.FrequencyMonthly, loans[0].Schedule.Frequency)
	assert.Equal(t, 12, loans[0].Schedule.Installments)
}

func TestImportLoansCSVExistingBorrowerReused(t *testing.T) {
	existing := models.Borrower{ID: uuid.New(), Name: "Alice"}
	created := 0
	borrowerRepo := &mockBorrowerRepository{
		mockFindByName: func(ctx context.Context, name string) (*models.Borrower, error) {
			return &existing, nil
		},
		mockCreate: func(ctx context.Context, b *models.Borrower) error {
			created++
			return nil
		},
	}
	var loans []models.Loan
	loanRepo := &mockLoanRepository{
		mockCreate: func(ctx context.Context, l *models.Loan) error {
			loans = append(loans, *l)
			return nil
		},
	}
	svc := newImportServiceForTest(t, borrowerRepo, loanRepo)

	csvData := []byte("Alice,1000,12,2026-01-01,2026-12-31\n")

	result, err := svc.LoansCSV(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Zero(t, created)
	require.Len(t, loans, 1)
	assert.Equal(t, existing.ID, loans[0].BorrowerID)
}

func TestImportLoansCSVBadRowsSkipped(t *testing.T) {
	var loans []models.Loan
	loanRepo := &mockLoanRepository{
		mockCreate: func(ctx context.Context, l *models.Loan) error {
			loans = append(loans, *l)
			return nil
		},
	}
	svc := newImportServiceForTest(t, &mockBorrowerRepository{}, loanRepo)

	csvData := []byte("Alice,not-a-number,12,2026-01-01,2026-12-31\n" +
		"Bob,500,10,2026-02-01,2026-11-30\n")

	result, err := svc.LoansCSV(context.Background(), csvData)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "invalid principal")
	require.Len(t, loans, 1)
}
