package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment represents a recorded remittance against a loan, split into a
// principal portion and an interest portion. Payments are append-only from
// the reconciliation core's perspective: edits and deletes happen at the
// service layer and simply change the input set for the next pass.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"loan_id"`
	Date      time.Time       `gorm:"type:date;not null;index" json:"date"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Principal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"principal"`
	Interest  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"interest"`
	Notes     *string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Associations
	Loan Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// IsValid returns true if the payment carries a positive remitted amount.
// Non-positive payments contribute nothing to balances; the core reports
// them as data-quality anomalies instead of failing.
func (p *Payment) IsValid() bool {
	return p.Amount.IsPositive()
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	LoanID    uuid.UUID       `json:"loan_id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Notes     *string         `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		LoanID:    p.LoanID,
		Date:      p.Date,
		Amount:    p.Amount,
		Principal: p.Principal,
		Interest:  p.Interest,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}
