package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit entry. Archive calls are always
// audited: the transition removes a loan from default views and must be
// traceable to a user.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // CREATE, UPDATE, DELETE, ARCHIVE, SETTLE, IMPORT, SYNC
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Loan, Payment, Borrower, Advance
	EntityID  uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
