// Package reconcile is the pure reconciliation core: given a snapshot of
// loans and their payments it computes balances, derives lifecycle statuses,
// projects payment schedules and answers read-only portfolio queries. It
// performs no I/O and holds no state between calls; callers persist whatever
// it returns.
package reconcile

import (
	"fmt"

	"github.com/google/uuid"
)

// Anomaly is a non-fatal data-quality warning. Malformed records are
// normalized to a safe default and reported here instead of blocking the
// reconciliation of the remaining good records.
type Anomaly struct {
	LoanID    uuid.UUID  `json:"loan_id"`
	PaymentID *uuid.UUID `json:"payment_id,omitempty"`
	Field     string     `json:"field"`
	Reason    string     `json:"reason"`
}

func (a Anomaly) String() string {
	if a.PaymentID != nil {
		return fmt.Sprintf("loan %s payment %s: %s (%s)", a.LoanID, *a.PaymentID, a.Reason, a.Field)
	}
	return fmt.Sprintf("loan %s: %s (%s)", a.LoanID, a.Reason, a.Field)
}

func paymentAnomaly(loanID, paymentID uuid.UUID, field, reason string) Anomaly {
	pid := paymentID
	return Anomaly{LoanID: loanID, PaymentID: &pid, Field: field, Reason: reason}
}
