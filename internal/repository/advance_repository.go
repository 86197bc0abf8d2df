package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// AdvanceRepository defines the interface for advance data access
type AdvanceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Advance, error)
	FindByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.Advance, error)
	FindAll(ctx context.Context) ([]models.Advance, error)
	Create(ctx context.Context, advance *models.Advance) error
	Update(ctx context.Context, advance *models.Advance) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByBorrower(ctx context.Context, borrowerID uuid.UUID) (int64, error)
}

type advanceRepository struct {
	db *gorm.DB
}

// NewAdvanceRepository creates a new advance repository
func NewAdvanceRepository(db *gorm.DB) AdvanceRepository {
	return &advanceRepository{db: db}
}

func (r *advanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Advance, error) {
	var advance models.Advance
	err := r.db.WithContext(ctx).First(&advance, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

func (r *advanceRepository) FindByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]models.Advance, error) {
	var advances []models.Advance
	err := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("due_date ASC").
		Find(&advances).Error
	return advances, err
}

func (r *advanceRepository) FindAll(ctx context.Context) ([]models.Advance, error) {
	var advances []models.Advance
	err := r.db.WithContext(ctx).Order("due_date ASC").Find(&advances).Error
	return advances, err
}

func (r *advanceRepository) Create(ctx context.Context, advance *models.Advance) error {
	return r.db.WithContext(ctx).Create(advance).Error
}

func (r *advanceRepository) Update(ctx context.Context, advance *models.Advance) error {
	return r.db.WithContext(ctx).Save(advance).Error
}

func (r *advanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Advance{}, "id = ?", id).Error
}

func (r *advanceRepository) CountByBorrower(ctx context.Context, borrowerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Advance{}).
		Where("borrower_id = ?", borrowerID).
		Count(&count).Error
	return count, err
}
