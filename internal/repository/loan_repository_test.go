package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// openTestDB opens an in-memory sqlite database and migrates the schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Borrower{},
		&models.Loan{},
		&models.PaymentSchedule{},
		&models.Payment{},
	))
	return db
}

func seedBorrower(t *testing.T, db *gorm.DB) models.Borrower {
	t.Helper()
	borrower := models.Borrower{ID: uuid.New(), Name: "Maria Lopez"}
	require.NoError(t, db.Create(&borrower).Error)
	return borrower
}

func seedLoan(t *testing.T, db *gorm.DB, borrowerID uuid.UUID, status string) models.Loan {
	t.Helper()
	loan := models.Loan{
		ID:           uuid.New(),
		BorrowerID:   borrowerID,
		Principal:    decimal.NewFromInt(1000),
		InterestRate: decimal.NewFromInt(12),
		IssueDate:    time.Now().AddDate(0, -6, 0),
		DueDate:      time.Now().AddDate(0, 6, 0),
		Status:       status,
	}
	require.NoError(t, db.Create(&loan).Error)
	return loan
}

func TestLoanRepositoryCreateAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrower := seedBorrower(t, db)
	loan := seedLoan(t, db, borrower.ID, models.LoanStatusActive)

	got, err := repo.FindByID(ctx, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, got.ID)
	assert.True(t, got.Principal.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, models.LoanStatusActive, got.Status)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoanRepositoryApplyStatusDiff(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrower := seedBorrower(t, db)
	first := seedLoan(t, db, borrower.ID, models.LoanStatusActive)
	second := seedLoan(t, db, borrower.ID, models.LoanStatusActive)

	first.Status = models.LoanStatusOverdue
	first.Principal = decimal.NewFromInt(9999) // must not be persisted
	require.NoError(t, repo.ApplyStatusDiff(ctx, []models.Loan{first}))

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusOverdue, got.Status)
	assert.True(t, got.Principal.Equal(decimal.NewFromInt(1000)), "only status is written")

	untouched, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusActive, untouched.Status)

	assert.NoError(t, repo.ApplyStatusDiff(ctx, nil))
}

func TestLoanRepositoryDeleteCascades(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrower := seedBorrower(t, db)
	loan := seedLoan(t, db, borrower.ID, models.LoanStatusActive)

	payment := models.Payment{
		ID:        uuid.New(),
		LoanID:    loan.ID,
		Date:      time.Now(),
		Amount:    decimal.NewFromInt(100),
		Principal: decimal.NewFromInt(90),
		Interest:  decimal.NewFromInt(10),
	}
	require.NoError(t, db.Create(&payment).Error)
	schedule := models.PaymentSchedule{
		ID:              uuid.New(),
		LoanID:          loan.ID,
		Frequency:       models.FrequencyMonthly,
		Installments:    12,
		NextPaymentDate: time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(&schedule).Error)

	require.NoError(t, repo.Delete(ctx, loan.ID))

	var payments int64
	db.Model(&models.Payment{}).Where("loan_id = ?", loan.ID).Count(&payments)
	assert.Zero(t, payments)
	var schedules int64
	db.Model(&models.PaymentSchedule{}).Where("loan_id = ?", loan.ID).Count(&schedules)
	assert.Zero(t, schedules)
	_, err := repo.FindByID(ctx, loan.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoanRepositoryListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	borrower := seedBorrower(t, db)
	seedLoan(t, db, borrower.ID, models.LoanStatusActive)
	seedLoan(t, db, borrower.ID, models.LoanStatusOverdue)
	seedLoan(t, db, borrower.ID, models.LoanStatusOverdue)

	loans, total, err := repo.List(ctx, &ListQuery{
		Page:    1,
		PerPage: 10,
		Filters: map[string]string{"status": models.LoanStatusOverdue},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, loans, 2)

	count, err := repo.CountByBorrower(ctx, borrower.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
