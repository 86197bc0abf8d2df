package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// BorrowerRepository defines the interface for borrower data access
type BorrowerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Borrower, error)
	FindByName(ctx context.Context, name string) (*models.Borrower, error)
	FindAll(ctx context.Context) ([]models.Borrower, error)
	Create(ctx context.Context, borrower *models.Borrower) error
	Update(ctx context.Context, borrower *models.Borrower) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query *ListQuery) ([]models.Borrower, int64, error)
}

type borrowerRepository struct {
	db *gorm.DB
}

// NewBorrowerRepository creates a new borrower repository
func NewBorrowerRepository(db *gorm.DB) BorrowerRepository {
	return &borrowerRepository{db: db}
}

func (r *borrowerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Borrower, error) {
	var borrower models.Borrower
	err := r.db.WithContext(ctx).
		Preload("Loans").
		First(&borrower, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &borrower, nil
}

func (r *borrowerRepository) FindByName(ctx context.Context, name string) (*models.Borrower, error) {
	var borrower models.Borrower
	err := r.db.WithContext(ctx).First(&borrower, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &borrower, nil
}

func (r *borrowerRepository) FindAll(ctx context.Context) ([]models.Borrower, error) {
	var borrowers []models.Borrower
	err := r.db.WithContext(ctx).Order("name ASC").Find(&borrowers).Error
	return borrowers, err
}

func (r *borrowerRepository) Create(ctx context.Context, borrower *models.Borrower) error {
	return r.db.WithContext(ctx).Create(borrower).Error
}

func (r *borrowerRepository) Update(ctx context.Context, borrower *models.Borrower) error {
	return r.db.WithContext(ctx).Save(borrower).Error
}

func (r *borrowerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Borrower{}, "id = ?", id).Error
}

func (r *borrowerRepository) List(ctx context.Context, query *ListQuery) ([]models.Borrower, int64, error) {
	var borrowers []models.Borrower
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Borrower{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.
		Order("name ASC").
		Limit(query.limit()).
		Offset(query.offset()).
		Find(&borrowers).Error
	return borrowers, total, err
}
