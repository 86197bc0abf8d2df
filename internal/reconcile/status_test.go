package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

func statusLoan(status string, issue, due time.Time) *models.Loan {
	l := testLoan("1000")
	l.Status = status
	l.IssueDate = issue
	l.DueDate = due
	return l
}

func TestDetermineStatus(t *testing.T) {
	today := date(2026, 8, 28)

	tests := []struct {
		name     string
		loan     *models.Loan
		payments []models.Payment
		want     string
	}{
		{
			name: "pending before issue date",
			loan: statusLoan(models.LoanStatusPending, date(2026, 9, 1), date(2027, 9, 1)),
			want: models.LoanStatusPending,
		},
		{
			name: "active within term",
			loan: statusLoan(models.LoanStatusPending, date(2026, 1, 1), date(2027, 1, 1)),
			want: models.LoanStatusActive,
		},
		{
			name: "active on the due date itself",
			loan: statusLoan(models.LoanStatusActive, date(2026, 1, 1), today),
			want: models.LoanStatusActive,
		},
		{
			name: "overdue the day after the due date",
			loan: statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 8, 27)),
			want: models.LoanStatusOverdue,
		},
		{
			name: "overdue within grace stays overdue",
			loan: statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 8, 10)),
			want: models.LoanStatusOverdue,
		},
		{
			name: "overdue past grace escalates to defaulted",
			loan: statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 7, 1)),
			want: models.LoanStatusDefaulted,
		},
		{
			name: "defaulted stays defaulted while past due",
			loan: statusLoan(models.LoanStatusDefaulted, date(2026, 1, 1), date(2026, 8, 20)),
			want: models.LoanStatusDefaulted,
		},
		{
			name: "defaulted brought current reverts to active",
			loan: statusLoan(models.LoanStatusDefaulted, date(2026, 1, 1), date(2026, 12, 1)),
			want: models.LoanStatusActive,
		},
		{
			name: "overdue reverts to active when due date extended",
			loan: statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 12, 1)),
			want: models.LoanStatusActive,
		},
		{
			name: "archived is preserved unconditionally",
			loan: statusLoan(models.LoanStatusArchived, date(2026, 1, 1), date(2026, 7, 1)),
			want: models.LoanStatusArchived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineStatus(tt.loan, tt.payments, today, Options{})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetermineStatusPaidBeatsOverdue(t *testing.T) {
	// Final payment landed after the due date; settled must still win.
	loan := statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 7, 1))
	payments := []models.Payment{payment(loan.ID, "1000", "1000", "0")}

	got := DetermineStatus(loan, payments, date(2026, 8, 28), Options{})

	assert.Equal(t, models.LoanStatusPaid, got)
}

func TestDetermineStatusUsesScheduleNextPaymentDate(t *testing.T) {
	loan := statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	loan.Schedule = &models.PaymentSchedule{
		Frequency:       models.FrequencyMonthly,
		Installments:    12,
		NextPaymentDate: date(2026, 8, 15),
	}

	got := DetermineStatus(loan, nil, date(2026, 8, 28), Options{})

	assert.Equal(t, models.LoanStatusOverdue, got, "a missed installment is overdue even before the final due date")
}

func TestDetermineStatusCustomGraceWindow(t *testing.T) {
	// 10 days past due with a 7-day grace window.
	loan := statusLoan(models.LoanStatusOverdue, date(2026, 1, 1), date(2026, 8, 18))

	assert.Equal(t, models.LoanStatusDefaulted,
		DetermineStatus(loan, nil, date(2026, 8, 28), Options{GraceDays: 7}))
	assert.Equal(t, models.LoanStatusOverdue,
		DetermineStatus(loan, nil, date(2026, 8, 28), Options{GraceDays: 15}))
}

func TestDetermineStatusActiveDoesNotSkipToDefaulted(t *testing.T) {
	// A loan that was never marked overdue first becomes overdue, even far
	// past the grace window. Escalation requires passing through overdue.
	loan := statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 2, 1))

	got := DetermineStatus(loan, nil, date(2026, 8, 28), Options{})

	assert.Equal(t, models.LoanStatusOverdue, got)
}
