package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Advance represents a short-term cash disbursement tracked separately from
// loans. It has no partial-payment ledger: a single settle action flips it
// from active to paid.
type Advance struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BorrowerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"borrower_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Fee        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"fee"`
	IssueDate  time.Time       `gorm:"type:date;not null" json:"issue_date"`
	DueDate    time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status     string          `gorm:"default:active;not null;index" json:"status"`
	SettledAt  *time.Time      `json:"settled_at"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Associations
	Borrower Borrower `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
}

// TableName specifies the table name for Advance
func (Advance) TableName() string {
	return "advances"
}

// Advance status constants
const (
	AdvanceStatusActive = "active"
	AdvanceStatusPaid   = "paid"
)

// MaySettle returns true if the advance can transition to paid
func (a *Advance) MaySettle() bool {
	return a.Status == AdvanceStatusActive
}

// TotalOwed returns amount plus fee
func (a *Advance) TotalOwed() decimal.Decimal {
	return a.Amount.Add(a.Fee)
}

// AdvanceResponse is the JSON response format for advances
type AdvanceResponse struct {
	ID           uuid.UUID       `json:"id"`
	BorrowerID   uuid.UUID       `json:"borrower_id"`
	BorrowerName string          `json:"borrower_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Fee          decimal.Decimal `json:"fee"`
	TotalOwed    decimal.Decimal `json:"total_owed"`
	IssueDate    time.Time       `json:"issue_date"`
	DueDate      time.Time       `json:"due_date"`
	Status       string          `json:"status"`
	SettledAt    *time.Time      `json:"settled_at"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToResponse converts Advance to AdvanceResponse
func (a *Advance) ToResponse() AdvanceResponse {
	resp := AdvanceResponse{
		ID:         a.ID,
		BorrowerID: a.BorrowerID,
		Amount:     a.Amount,
		Fee:        a.Fee,
		TotalOwed:  a.TotalOwed(),
		IssueDate:  a.IssueDate,
		DueDate:    a.DueDate,
		Status:     a.Status,
		SettledAt:  a.SettledAt,
		CreatedAt:  a.CreatedAt,
	}
	if a.Borrower.ID != uuid.Nil {
		resp.BorrowerName = a.Borrower.Name
	}
	return resp
}
