package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/repository"
)

// BorrowerService handles borrower records
type BorrowerService struct {
	repo        repository.BorrowerRepository
	loanRepo    repository.LoanRepository
	advanceRepo repository.AdvanceRepository
}

// NewBorrowerService creates a new borrower service
func NewBorrowerService(repo repository.BorrowerRepository, loanRepo repository.LoanRepository, advanceRepo repository.AdvanceRepository) *BorrowerService {
	return &BorrowerService{
		repo:        repo,
		loanRepo:    loanRepo,
		advanceRepo: advanceRepo,
	}
}

// CreateBorrowerInput carries the fields accepted when creating a borrower
type CreateBorrowerInput struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

// Create stores a new borrower
func (s *BorrowerService) Create(ctx context.Context, input *CreateBorrowerInput) (*models.Borrower, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("borrower name is required")
	}
	borrower := &models.Borrower{
		ID:    uuid.New(),
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
		Notes: input.Notes,
	}
	if err := s.repo.Create(ctx, borrower); err != nil {
		return nil, fmt.Errorf("failed to create borrower: %w", err)
	}
	return borrower, nil
}

// FindByID returns a borrower with their loans
func (s *BorrowerService) FindByID(ctx context.Context, id uuid.UUID) (*models.Borrower, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns borrowers with pagination and search
func (s *BorrowerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Borrower, int64, error) {
	return s.repo.List(ctx, query)
}

// Update changes a borrower's contact fields
func (s *BorrowerService) Update(ctx context.Context, id uuid.UUID, input *CreateBorrowerInput) (*models.Borrower, error) {
	borrower, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if input.Name != "" {
		borrower.Name = input.Name
	}
	if input.Phone != nil {
		borrower.Phone = input.Phone
	}
	if input.Email != nil {
		borrower.Email = input.Email
	}
	if input.Notes != nil {
		borrower.Notes = input.Notes
	}
	if err := s.repo.Update(ctx, borrower); err != nil {
		return nil, fmt.Errorf("failed to update borrower: %w", err)
	}
	return borrower, nil
}

// Delete removes a borrower. A borrower that still owns loans or advances
// cannot be deleted.
func (s *BorrowerService) Delete(ctx context.Context, id uuid.UUID) error {
	loanCount, err := s.loanRepo.CountByBorrower(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count loans: %w", err)
	}
	advanceCount, err := s.advanceRepo.CountByBorrower(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count advances: %w", err)
	}
	if loanCount > 0 || advanceCount > 0 {
		return ErrBorrowerHasDebt
	}
	return s.repo.Delete(ctx, id)
}
