package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Borrower     BorrowerRepository
	Loan         LoanRepository
	Payment      PaymentRepository
	Advance      AdvanceRepository
	Notification NotificationRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Borrower:     NewBorrowerRepository(db),
		Loan:         NewLoanRepository(db),
		Payment:      NewPaymentRepository(db),
		Advance:      NewAdvanceRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// ListQuery holds common pagination and filter parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

func (q *ListQuery) offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.limit()
}

func (q *ListQuery) limit() int {
	if q.PerPage < 1 {
		return 20
	}
	return q.PerPage
}
