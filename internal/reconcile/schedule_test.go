package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestProjectAuthoritativeInstallment(t *testing.T) {
	amount := dec("125.50")
	loan := testLoan("1000")
	loan.Schedule = &models.PaymentSchedule{
		Frequency:         models.FrequencyMonthly,
		Installments:      10,
		InstallmentAmount: &amount,
		NextPaymentDate:   date(2026, 9, 1),
	}

	p := Project(loan, date(2026, 8, 28))

	assert.True(t, amount.Equal(p.InstallmentAmount))
	assert.Equal(t, date(2026, 9, 1), p.NextPaymentDate)
	assert.False(t, p.Estimated, "a stored installment amount is authoritative")
}

func TestProjectEstimatesWhenAmountMissing(t *testing.T) {
	loan := testLoan("1200")
	loan.InterestRate = dec("10")
	loan.Schedule = &models.PaymentSchedule{
		Frequency:       models.FrequencyMonthly,
		Installments:    12,
		NextPaymentDate: date(2026, 9, 1),
	}

	p := Project(loan, date(2026, 8, 28))

	// 1200 * 1.10 / 12
	assert.True(t, dec("110").Equal(p.InstallmentAmount), "got %s", p.InstallmentAmount)
	assert.True(t, p.Estimated)
}

func TestProjectWithoutSchedule(t *testing.T) {
	loan := testLoan("1200")
	loan.DueDate = date(2027, 1, 15)

	p := Project(loan, date(2026, 8, 28))

	assert.Equal(t, date(2027, 1, 15), p.NextPaymentDate)
	assert.True(t, p.Estimated)
	assert.True(t, dec("100").Equal(p.InstallmentAmount), "principal/12 with zero rate, got %s", p.InstallmentAmount)
}

func TestAdvanceScheduleMovesFromScheduledDate(t *testing.T) {
	s := models.PaymentSchedule{
		Frequency:       models.FrequencyMonthly,
		Installments:    12,
		NextPaymentDate: date(2026, 9, 1),
	}

	// An early payment on Aug 20 must not re-anchor the schedule.
	advanced := AdvanceSchedule(s)

	assert.Equal(t, 1, advanced.PaidInstallments)
	assert.Equal(t, date(2026, 10, 1), advanced.NextPaymentDate)
	assert.Equal(t, date(2026, 9, 1), s.NextPaymentDate, "input must not be mutated")
}

func TestAdvanceScheduleTwicePreservesCadence(t *testing.T) {
	s := models.PaymentSchedule{
		Frequency:       models.FrequencyBiweekly,
		NextPaymentDate: date(2026, 9, 1),
	}

	s = AdvanceSchedule(AdvanceSchedule(s))

	assert.Equal(t, 2, s.PaidInstallments)
	assert.Equal(t, date(2026, 9, 29), s.NextPaymentDate)
}

func TestNextPeriod(t *testing.T) {
	from := date(2026, 1, 31)
	custom := 10

	tests := []struct {
		frequency  string
		customDays *int
		want       time.Time
	}{
		{models.FrequencyWeekly, nil, date(2026, 2, 7)},
		{models.FrequencyBiweekly, nil, date(2026, 2, 14)},
		{models.FrequencyMonthly, nil, date(2026, 3, 3)}, // Jan 31 + 1 month normalizes
		{models.FrequencyQuarterly, nil, date(2026, 5, 1)},
		{models.FrequencyYearly, nil, date(2027, 1, 31)},
		{models.FrequencyInterestOnly, nil, date(2026, 3, 3)},
		{models.FrequencyCustom, &custom, date(2026, 2, 10)},
		{models.FrequencyCustom, nil, date(2026, 3, 2)}, // default 30 days
		{"unrecognized", nil, date(2026, 3, 3)},         // falls back to monthly
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			got := NextPeriod(tt.frequency, from, tt.customDays)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}
