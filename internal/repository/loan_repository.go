package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Loan, error)
	FindByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.Loan, error)
	FindAll(ctx context.Context) ([]models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query *ListQuery) ([]models.Loan, int64, error)
	CountByBorrower(ctx context.Context, borrowerID uuid.UUID) (int64, error)
	// ApplyStatusDiff persists the reconciliation loop's diff in a single
	// transaction: only the status column of the listed loans is written.
	ApplyStatusDiff(ctx context.Context, updated []models.Loan) error
	SaveSchedule(ctx context.Context, schedule *models.PaymentSchedule) error
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Joins("Borrower").
		Preload("Schedule").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC")
		}).
		First(&loan, "loans.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Preload("Schedule").
		Find(&loans).Error
	return loans, err
}

// FindAll loads the full loan snapshot with schedules, the input shape the
// reconciliation loop expects.
func (r *loanRepository) FindAll(ctx context.Context) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		Find(&loans).Error
	return loans, err
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *loanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", id).Delete(&models.PaymentSchedule{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Loan{}, "id = ?", id).Error
	})
}

func (r *loanRepository) List(ctx context.Context, query *ListQuery) ([]models.Loan, int64, error) {
	var loans []models.Loan
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Loan{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["borrower_id"] != "" {
		db = db.Where("borrower_id = ?", query.Filters["borrower_id"])
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if query.SortBy != "" {
		sortBy = query.SortBy
	}
	sortDir := "desc"
	if strings.EqualFold(query.SortDir, "asc") {
		sortDir = "asc"
	}

	err := db.
		Preload("Schedule").
		Preload("Borrower").
		Order(sortBy + " " + sortDir).
		Limit(query.limit()).
		Offset(query.offset()).
		Find(&loans).Error
	return loans, total, err
}

func (r *loanRepository) CountByBorrower(ctx context.Context, borrowerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("borrower_id = ?", borrowerID).
		Count(&count).Error
	return count, err
}

func (r *loanRepository) ApplyStatusDiff(ctx context.Context, updated []models.Loan) error {
	if len(updated) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range updated {
			err := tx.Model(&models.Loan{}).
				Where("id = ?", updated[i].ID).
				Update("status", updated[i].Status).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *loanRepository) SaveSchedule(ctx context.Context, schedule *models.PaymentSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}
