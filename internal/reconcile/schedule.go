package reconcile

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

const defaultCustomIntervalDays = 30

var (
	hundred      = decimal.NewFromInt(100)
	twelveMonths = decimal.NewFromInt(12)
)

// Projection is the Schedule Projector's output: the installment amount and
// the next due date for a loan.
type Projection struct {
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	NextPaymentDate   time.Time       `json:"next_payment_date"`
	// Estimated is true when no authoritative installment amount exists and
	// the amount shown is the principal/installments fallback. Estimated
	// figures are for display only, never ground truth.
	Estimated bool `json:"estimated"`
}

// Project computes the next expected payment for a loan as of the given
// date. A set InstallmentAmount on the schedule is authoritative; otherwise
// the amount is estimated as principal divided by installments, inflated by
// the interest rate. Loans without a schedule project their due date and a
// principal/12 estimate.
func Project(loan *models.Loan, asOf time.Time) Projection {
	asOf = DateOnly(asOf)

	if !loan.HasSchedule() {
		next := DateOnly(loan.DueDate)
		if next.IsZero() {
			next = asOf
		}
		return Projection{
			InstallmentAmount: estimateInstallment(loan, 12),
			NextPaymentDate:   next,
			Estimated:         true,
		}
	}

	s := loan.Schedule
	p := Projection{NextPaymentDate: DateOnly(s.NextPaymentDate)}
	if p.NextPaymentDate.IsZero() {
		p.NextPaymentDate = asOf
	}
	if s.InstallmentAmount != nil && s.InstallmentAmount.IsPositive() {
		p.InstallmentAmount = *s.InstallmentAmount
		return p
	}
	installments := s.Installments
	if installments <= 0 {
		installments = 12
	}
	p.InstallmentAmount = estimateInstallment(loan, installments)
	p.Estimated = true
	return p
}

// estimateInstallment spreads principal plus simple interest evenly.
func estimateInstallment(loan *models.Loan, installments int) decimal.Decimal {
	if installments <= 0 {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1).Add(loan.InterestRate.Div(hundred))
	return loan.Principal.Mul(factor).
		Div(decimal.NewFromInt(int64(installments))).
		Round(2)
}

// AdvanceSchedule returns a copy of the schedule advanced by exactly one
// installment: PaidInstallments increments by one and NextPaymentDate moves
// one period forward from its prior value. The next date is never recomputed
// from the issue date, so irregular or extra payments cannot cause drift.
func AdvanceSchedule(s models.PaymentSchedule) models.PaymentSchedule {
	s.PaidInstallments++
	s.NextPaymentDate = NextPeriod(s.Frequency, DateOnly(s.NextPaymentDate), s.CustomIntervalDays)
	return s
}

// NextPeriod returns the date one schedule period after from. Unknown
// frequencies fall back to monthly, the safest period for a record that was
// imported with a frequency the core does not recognize.
func NextPeriod(frequency string, from time.Time, customDays *int) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	case models.FrequencyMonthly, models.FrequencyInterestOnly:
		return from.AddDate(0, 1, 0)
	case models.FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case models.FrequencyYearly:
		return from.AddDate(1, 0, 0)
	case models.FrequencyCustom:
		days := defaultCustomIntervalDays
		if customDays != nil && *customDays > 0 {
			days = *customDays
		}
		return from.AddDate(0, 0, days)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// EstimatedMonthlyInstallment is the principal/12 display fallback used when
// a loan has no usable schedule at all.
func EstimatedMonthlyInstallment(loan *models.Loan) decimal.Decimal {
	return loan.Principal.Div(twelveMonths).Round(2)
}
