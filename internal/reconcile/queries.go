package reconcile

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// PastDue is the single delinquency predicate shared by loans and advances:
// the due date lies strictly before today, at calendar-day granularity.
func PastDue(dueDate, today time.Time) bool {
	return DateOnly(today).After(DateOnly(dueDate))
}

// OverdueLoans returns the loans currently overdue or defaulted.
func OverdueLoans(loans []models.Loan) []models.Loan {
	var out []models.Loan
	for _, l := range loans {
		if l.IsDelinquent() {
			out = append(out, l)
		}
	}
	return out
}

// OverdueAdvances returns the advances that are active and past due.
func OverdueAdvances(advances []models.Advance, today time.Time) []models.Advance {
	var out []models.Advance
	for _, a := range advances {
		if a.Status == models.AdvanceStatusActive && PastDue(a.DueDate, today) {
			out = append(out, a)
		}
	}
	return out
}

// UpcomingDueLoans returns the non-archived loans whose next payment date
// falls within [today, today+days] inclusive. A paid loan with a schedule
// still appears when it carries a future next payment date for a subsequent
// installment; a paid loan without a schedule has nothing further due.
func UpcomingDueLoans(loans []models.Loan, today time.Time, days int) []models.Loan {
	today = DateOnly(today)
	end := today.AddDate(0, 0, days)

	var out []models.Loan
	for _, l := range loans {
		if l.IsArchived() {
			continue
		}
		var next time.Time
		if l.HasSchedule() {
			next = DateOnly(l.Schedule.NextPaymentDate)
		} else {
			if l.Status == models.LoanStatusPaid {
				continue
			}
			next = DateOnly(l.DueDate)
		}
		if !next.Before(today) && !next.After(end) {
			out = append(out, l)
		}
	}
	return out
}

// EstimatedMonthlyPayments sums the expected installment amounts of
// non-archived, non-defaulted loans whose next payment date falls in the
// current calendar month. When no loan has a usable schedule the figure
// falls back to principal/12 per loan and approximate is true.
func EstimatedMonthlyPayments(loans []models.Loan, today time.Time) (total decimal.Decimal, approximate bool) {
	total = decimal.Zero
	anySchedule := false
	for _, l := range loans {
		if l.IsArchived() || l.Status == models.LoanStatusDefaulted {
			continue
		}
		if l.HasSchedule() {
			anySchedule = true
			if sameMonth(l.Schedule.NextPaymentDate, today) {
				total = total.Add(Project(&l, today).InstallmentAmount)
			}
		}
	}
	if anySchedule {
		return total, false
	}

	total = decimal.Zero
	for _, l := range loans {
		if l.IsArchived() || l.Status == models.LoanStatusDefaulted {
			continue
		}
		total = total.Add(EstimatedMonthlyInstallment(&l))
	}
	return total, true
}

// DashboardTotals aggregates the reconciled portfolio for reporting. The
// overdue exposure uses the expected installment amount, not the full
// remaining balance: the figure answers "how much should have arrived by
// now", not "how much is still owed overall".
func DashboardTotals(loans []models.Loan, paymentsByLoan map[uuid.UUID][]models.Payment, advances []models.Advance, today time.Time) models.DashboardOverview {
	overview := models.DashboardOverview{
		OutstandingPrincipal: decimal.Zero,
		InterestThisMonth:    decimal.Zero,
		OverdueExposure:      decimal.Zero,
		GeneratedAt:          today,
	}

	for i := range loans {
		l := loans[i]
		switch l.Status {
		case models.LoanStatusActive, models.LoanStatusPending:
			overview.ActiveLoans++
		case models.LoanStatusOverdue:
			overview.OverdueLoans++
		case models.LoanStatusDefaulted:
			overview.DefaultedLoans++
		case models.LoanStatusPaid:
			overview.PaidLoans++
		}

		if !l.IsArchived() {
			remaining := RemainingBalance(&l, paymentsByLoan[l.ID])
			if remaining.IsPositive() {
				overview.OutstandingPrincipal = overview.OutstandingPrincipal.Add(remaining)
			}
		}
		if l.IsDelinquent() {
			overview.OverdueExposure = overview.OverdueExposure.Add(Project(&l, today).InstallmentAmount)
		}
		for _, p := range paymentsByLoan[l.ID] {
			if p.IsValid() && sameMonth(p.Date, today) && !p.Interest.IsNegative() {
				overview.InterestThisMonth = overview.InterestThisMonth.Add(p.Interest)
			}
		}
	}

	for _, a := range advances {
		if a.Status != models.AdvanceStatusActive {
			continue
		}
		overview.ActiveAdvances++
		if PastDue(a.DueDate, today) {
			overview.OverdueAdvances++
		}
	}

	overview.EstimatedThisMonth, overview.EstimateApproximate = EstimatedMonthlyPayments(loans, today)
	return overview
}
