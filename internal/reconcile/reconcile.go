package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// Result is the Reconciliation Loop's output: the loans whose status
// actually changed, plus the side observations callers subscribe to.
type Result struct {
	// Updated holds copies of the loans whose derived status differs from
	// their stored status, with the new status applied. A no-op pass
	// produces an empty slice, which makes repeated invocation idempotent
	// and cheap for the caller to persist.
	Updated []models.Loan
	// ReachedPaid lists the loans that newly transitioned to paid in this
	// pass. The workflow collaborator uses it to prompt for archiving;
	// reaching paid never archives by itself.
	ReachedPaid []uuid.UUID
	// Anomalies aggregates the data-quality warnings encountered while
	// computing balances. One bad record never blocks the rest.
	Anomalies []Anomaly
}

// Empty reports whether the pass changed nothing.
func (r Result) Empty() bool {
	return len(r.Updated) == 0
}

// Reconcile runs the status engine over every loan in the snapshot and
// returns only the loans whose computed status differs from the stored one.
// The function is pure: it never mutates its inputs, only ever replaces the
// status field on copies, and converges to the same result no matter how
// many concurrent triggers invoke it on the same snapshot. The caller
// applies Updated transactionally.
func Reconcile(loans []models.Loan, paymentsByLoan map[uuid.UUID][]models.Payment, today time.Time, opts Options) Result {
	var res Result
	for i := range loans {
		loan := loans[i]
		payments := paymentsByLoan[loan.ID]

		res.Anomalies = append(res.Anomalies, ComputeBalance(&loan, payments).Anomalies...)

		status := DetermineStatus(&loan, payments, today, opts)
		if status == loan.Status {
			continue
		}
		if status == models.LoanStatusPaid {
			res.ReachedPaid = append(res.ReachedPaid, loan.ID)
		}
		loan.Status = status
		res.Updated = append(res.Updated, loan)
	}
	return res
}

// GroupPayments indexes a flat payment list by loan id, the shape Reconcile
// consumes.
func GroupPayments(payments []models.Payment) map[uuid.UUID][]models.Payment {
	grouped := make(map[uuid.UUID][]models.Payment, len(payments))
	for _, p := range payments {
		grouped[p.LoanID] = append(grouped[p.LoanID], p)
	}
	return grouped
}
