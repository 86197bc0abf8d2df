package models

import (
	"time"

	"github.com/google/uuid"
)

// Borrower represents a person money has been lent to
type Borrower struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Phone     *string   `gorm:"size:50" json:"phone"`
	Email     *string   `gorm:"size:255" json:"email"`
	Notes     *string   `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Loans    []Loan    `gorm:"foreignKey:BorrowerID" json:"loans,omitempty"`
	Advances []Advance `gorm:"foreignKey:BorrowerID" json:"advances,omitempty"`
}

// TableName specifies the table name for Borrower
func (Borrower) TableName() string {
	return "borrowers"
}

// BorrowerResponse is the JSON response format for borrowers
type BorrowerResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Notes      *string   `json:"notes"`
	LoanCount  int       `json:"loan_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToResponse converts Borrower to BorrowerResponse
func (b *Borrower) ToResponse() BorrowerResponse {
	return BorrowerResponse{
		ID:        b.ID,
		Name:      b.Name,
		Phone:     b.Phone,
		Email:     b.Email,
		Notes:     b.Notes,
		LoanCount: len(b.Loans),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
