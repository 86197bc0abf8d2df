package reconcile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

func TestPastDue(t *testing.T) {
	today := date(2026, 8, 28)

	assert.False(t, PastDue(today, today), "not past due on the due date itself")
	assert.False(t, PastDue(date(2026, 8, 29), today))
	assert.True(t, PastDue(date(2026, 8, 27), today))
	// Time-of-day never matters.
	assert.False(t, PastDue(time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC)))
}

func TestOverdueLoans(t *testing.T) {
	loans := []models.Loan{
		*statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1)),
		*statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 7, 1)),
		*statusLoan(models.LoanStatusDefaulted, date(2026, 1, 1), date(2026, 5, 1)),
		*statusLoan(models.LoanStatusPaid, date(2026, 1, 1), date(2026, 7, 1)),
	}

	out := OverdueLoans(loans)

	assert.Len(t, out, 2)
	assert.Equal(t, models.LoanStatusOverdue, out[0].Status)
	assert.Equal(t, models.LoanStatusDefaulted, out[1].Status)
}

func TestOverdueAdvances(t *testing.T) {
	today := date(2026, 8, 28)
	advances := []models.Advance{
		{ID: uuid.New(), Status: models.AdvanceStatusActive, DueDate: date(2026, 8, 20)},
		{ID: uuid.New(), Status: models.AdvanceStatusActive, DueDate: date(2026, 9, 20)},
		{ID: uuid.New(), Status: models.AdvanceStatusPaid, DueDate: date(2026, 8, 20)},
	}

	out := OverdueAdvances(advances, today)

	assert.Len(t, out, 1)
	assert.Equal(t, advances[0].ID, out[0].ID)
}

func TestUpcomingDueLoansWindow(t *testing.T) {
	today := date(2026, 8, 28)

	inWindow := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 9, 10))
	onEdge := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 9, 27))
	outside := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 9, 28))
	past := *statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 8, 20))
	archived := *statusLoan(models.LoanStatusArchived, date(2026, 1, 1), date(2026, 9, 10))

	out := UpcomingDueLoans([]models.Loan{inWindow, onEdge, outside, past, archived}, today, 30)

	ids := make([]uuid.UUID, 0, len(out))
	for _, l := range out {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{inWindow.ID, onEdge.ID}, ids)
}

func TestUpcomingDueLoansUsesScheduleDate(t *testing.T) {
	today := date(2026, 8, 28)

	l := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 6, 1))
	l.Schedule = &models.PaymentSchedule{
		Frequency:       models.FrequencyMonthly,
		Installments:    12,
		NextPaymentDate: date(2026, 9, 5),
	}

	out := UpcomingDueLoans([]models.Loan{l}, today, 30)

	assert.Len(t, out, 1, "schedule date, not final due date, drives inclusion")
}

func TestUpcomingDueLoansSkipsPaidWithoutSchedule(t *testing.T) {
	today := date(2026, 8, 28)
	paid := *statusLoan(models.LoanStatusPaid, date(2026, 1, 1), date(2026, 9, 10))

	out := UpcomingDueLoans([]models.Loan{paid}, today, 30)

	assert.Empty(t, out, "a paid loan with no schedule has nothing further due")
}

func TestEstimatedMonthlyPaymentsWithSchedules(t *testing.T) {
	today := date(2026, 8, 28)
	amount := dec("250")

	thisMonth := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	thisMonth.Schedule = &models.PaymentSchedule{
		Frequency:         models.FrequencyMonthly,
		Installments:      12,
		InstallmentAmount: &amount,
		NextPaymentDate:   date(2026, 8, 30),
	}
	nextMonth := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	nextMonth.Schedule = &models.PaymentSchedule{
		Frequency:         models.FrequencyMonthly,
		Installments:      12,
		InstallmentAmount: &amount,
		NextPaymentDate:   date(2026, 9, 30),
	}

	total, approximate := EstimatedMonthlyPayments([]models.Loan{thisMonth, nextMonth}, today)

	assert.True(t, dec("250").Equal(total), "only the installment due this month counts, got %s", total)
	assert.False(t, approximate)
}

func TestEstimatedMonthlyPaymentsFallback(t *testing.T) {
	today := date(2026, 8, 28)
	a := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	a.Principal = dec("1200")
	b := *statusLoan(models.LoanStatusDefaulted, date(2026, 1, 1), date(2026, 5, 1))
	b.Principal = dec("2400")

	total, approximate := EstimatedMonthlyPayments([]models.Loan{a, b}, today)

	assert.True(t, dec("100").Equal(total), "defaulted loans are excluded, got %s", total)
	assert.True(t, approximate, "no schedules at all makes the figure approximate")
}

func TestDashboardTotals(t *testing.T) {
	today := date(2026, 8, 28)

	active := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	active.Principal = dec("1000")
	overdue := *statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 7, 1))
	overdue.Principal = dec("600")
	paid := *statusLoan(models.LoanStatusPaid, date(2026, 1, 1), date(2026, 6, 1))
	paid.Principal = dec("500")

	payments := map[uuid.UUID][]models.Payment{
		active.ID: {
			{ID: uuid.New(), LoanID: active.ID, Date: date(2026, 8, 10),
				Amount: dec("110"), Principal: dec("100"), Interest: dec("10")},
			{ID: uuid.New(), LoanID: active.ID, Date: date(2026, 7, 10),
				Amount: dec("110"), Principal: dec("100"), Interest: dec("10")},
		},
		paid.ID: {
			{ID: uuid.New(), LoanID: paid.ID, Date: date(2026, 6, 1),
				Amount: dec("500"), Principal: dec("500"), Interest: decimal.Zero},
		},
	}
	advances := []models.Advance{
		{ID: uuid.New(), Status: models.AdvanceStatusActive, DueDate: date(2026, 8, 1)},
		{ID: uuid.New(), Status: models.AdvanceStatusActive, DueDate: date(2026, 10, 1)},
		{ID: uuid.New(), Status: models.AdvanceStatusPaid, DueDate: date(2026, 5, 1)},
	}

	overview := DashboardTotals([]models.Loan{active, overdue, paid}, payments, advances, today)

	assert.Equal(t, 1, overview.ActiveLoans)
	assert.Equal(t, 1, overview.OverdueLoans)
	assert.Equal(t, 1, overview.PaidLoans)
	assert.Equal(t, 2, overview.ActiveAdvances)
	assert.Equal(t, 1, overview.OverdueAdvances)
	// 800 still outstanding on the active loan plus 600 on the overdue one.
	assert.True(t, dec("1400").Equal(overview.OutstandingPrincipal), "got %s", overview.OutstandingPrincipal)
	// Only the August payment's interest counts for this month.
	assert.True(t, dec("10").Equal(overview.InterestThisMonth), "got %s", overview.InterestThisMonth)
	assert.True(t, overview.OverdueExposure.IsPositive())
}
