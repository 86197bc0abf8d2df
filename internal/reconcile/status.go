package reconcile

import (
	"time"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// DefaultGraceDays is the fallback delinquency window before an overdue loan
// escalates to defaulted. The threshold is configurable per deployment.
const DefaultGraceDays = 30

// Options tunes the status engine.
type Options struct {
	// GraceDays is how many days past due an already-delinquent loan may
	// remain unpaid before it escalates to defaulted. Zero or negative
	// selects DefaultGraceDays.
	GraceDays int
}

func (o Options) graceDays() int {
	if o.GraceDays > 0 {
		return o.GraceDays
	}
	return DefaultGraceDays
}

// DetermineStatus derives the canonical lifecycle status for a loan from its
// payment history and the current date. It is a pure, total function: every
// input maps to exactly one of the six statuses and no error is possible.
//
// The decision order matters and first match wins:
//
//  1. archived is terminal and unconditionally preserved. The engine never
//     assigns it either; that is the archive gate's exclusive job.
//  2. an exhausted balance always wins over date-based delinquency, so a
//     fully paid loan is never "overdue" just because the final payment
//     landed after the last scheduled date.
//  3. past the due date (no schedule) or past the next payment date (with a
//     schedule) the loan is overdue, escalating to defaulted once it has
//     been delinquent longer than the grace window.
//  4. otherwise active, or pending when the issue date is still ahead.
//
// An overdue loan that becomes current again (a late payment that does not
// fully clear it) reverts to active.
func DetermineStatus(loan *models.Loan, payments []models.Payment, today time.Time, opts Options) string {
	if loan.Status == models.LoanStatusArchived {
		return models.LoanStatusArchived
	}

	if ComputeBalance(loan, payments).Settled() {
		return models.LoanStatusPaid
	}

	today = DateOnly(today)
	due := DateOnly(loan.DueDate)
	if loan.HasSchedule() {
		due = DateOnly(loan.Schedule.NextPaymentDate)
	}

	if today.After(due) {
		// A defaulted loan stays defaulted while any balance remains past
		// due; it only leaves that state by being brought current or paid.
		if loan.Status == models.LoanStatusDefaulted {
			return models.LoanStatusDefaulted
		}
		if loan.Status == models.LoanStatusOverdue && daysBetween(due, today) > opts.graceDays() {
			return models.LoanStatusDefaulted
		}
		return models.LoanStatusOverdue
	}

	if today.Before(DateOnly(loan.IssueDate)) {
		return models.LoanStatusPending
	}
	return models.LoanStatusActive
}
