package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan represents money lent to a borrower under interest and repayment terms.
// Status is derived: only the reconciliation engine and the archive gate are
// allowed to write it.
type Loan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BorrowerID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"borrower_id"`
	Principal    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"principal"`
	InterestRate decimal.Decimal `gorm:"type:decimal(7,3);not null" json:"interest_rate"`
	IssueDate    time.Time       `gorm:"type:date;not null" json:"issue_date"`
	DueDate      time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status       string          `gorm:"default:pending;not null;index" json:"status"`
	Notes        *string         `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Associations
	Borrower Borrower         `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	Schedule *PaymentSchedule `gorm:"foreignKey:LoanID" json:"schedule,omitempty"`
	Payments []Payment        `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// Loan status constants
const (
	LoanStatusPending   = "pending"
	LoanStatusActive    = "active"
	LoanStatusOverdue   = "overdue"
	LoanStatusDefaulted = "defaulted"
	LoanStatusPaid      = "paid"
	LoanStatusArchived  = "archived"
)

// LoanStatuses lists every status the engine can produce plus archived.
var LoanStatuses = []string{
	LoanStatusPending,
	LoanStatusActive,
	LoanStatusOverdue,
	LoanStatusDefaulted,
	LoanStatusPaid,
	LoanStatusArchived,
}

// HasSchedule returns true if the loan carries a payment schedule
func (l *Loan) HasSchedule() bool {
	return l.Schedule != nil
}

// MayArchive returns true if the loan can transition to archived.
// Archiving is only permitted from paid.
func (l *Loan) MayArchive() bool {
	return l.Status == LoanStatusPaid
}

// IsArchived returns true if the loan is in the terminal archived state
func (l *Loan) IsArchived() bool {
	return l.Status == LoanStatusArchived
}

// IsDelinquent returns true if the loan is overdue or defaulted
func (l *Loan) IsDelinquent() bool {
	return l.Status == LoanStatusOverdue || l.Status == LoanStatusDefaulted
}

// PaymentSchedule holds the repayment configuration for a loan. Once present
// it only ever advances forward: NextPaymentDate strictly progresses and
// PaidInstallments never decreases.
type PaymentSchedule struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	LoanID             uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"loan_id"`
	Frequency          string           `gorm:"not null" json:"frequency"`
	Installments       int              `gorm:"not null" json:"installments"`
	InstallmentAmount  *decimal.Decimal `gorm:"type:decimal(15,2)" json:"installment_amount"`
	NextPaymentDate    time.Time        `gorm:"type:date;not null;index" json:"next_payment_date"`
	PaidInstallments   int              `gorm:"not null;default:0" json:"paid_installments"`
	CustomIntervalDays *int             `json:"custom_interval_days"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// TableName specifies the table name for PaymentSchedule
func (PaymentSchedule) TableName() string {
	return "payment_schedules"
}

// Schedule frequency constants
const (
	FrequencyWeekly       = "weekly"
	FrequencyBiweekly     = "biweekly"
	FrequencyMonthly      = "monthly"
	FrequencyQuarterly    = "quarterly"
	FrequencyYearly       = "yearly"
	FrequencyCustom       = "custom"
	FrequencyInterestOnly = "interest_only"
)

// Remaining returns the installments still unpaid
func (s *PaymentSchedule) Remaining() int {
	r := s.Installments - s.PaidInstallments
	if r < 0 {
		return 0
	}
	return r
}

// LoanResponse is the JSON response format for loans
type LoanResponse struct {
	ID               uuid.UUID        `json:"id"`
	BorrowerID       uuid.UUID        `json:"borrower_id"`
	BorrowerName     string           `json:"borrower_name,omitempty"`
	Principal        decimal.Decimal  `json:"principal"`
	InterestRate     decimal.Decimal  `json:"interest_rate"`
	IssueDate        time.Time        `json:"issue_date"`
	DueDate          time.Time        `json:"due_date"`
	Status           string           `json:"status"`
	Notes            *string          `json:"notes"`
	TotalPaid        decimal.Decimal  `json:"total_paid"`
	TotalInterest    decimal.Decimal  `json:"total_interest"`
	RemainingBalance decimal.Decimal  `json:"remaining_balance"`
	Schedule         *PaymentSchedule `json:"schedule,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ToResponse converts Loan to LoanResponse. Balance figures are filled in by
// the service layer from the reconciliation core.
func (l *Loan) ToResponse() LoanResponse {
	resp := LoanResponse{
		ID:           l.ID,
		BorrowerID:   l.BorrowerID,
		Principal:    l.Principal,
		InterestRate: l.InterestRate,
		IssueDate:    l.IssueDate,
		DueDate:      l.DueDate,
		Status:       l.Status,
		Notes:        l.Notes,
		Schedule:     l.Schedule,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.Borrower.ID != uuid.Nil {
		resp.BorrowerName = l.Borrower.Name
	}
	return resp
}
