package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// Balance holds the Balance Calculator's output for a single loan.
type Balance struct {
	TotalPaid     decimal.Decimal
	TotalInterest decimal.Decimal
	// Remaining is principal minus the principal portion of every valid
	// payment. It is deliberately not clamped at zero: callers that want
	// overpayment visibility get the negative value, while status
	// derivation treats anything <= 0 as settled.
	Remaining decimal.Decimal
	Anomalies []Anomaly
}

// Settled reports whether the remaining balance is exhausted.
func (b Balance) Settled() bool {
	return !b.Remaining.IsPositive()
}

// ComputeBalance sums the given payments against the loan's principal.
// Payments with a non-positive amount are excluded from every sum and
// reported as anomalies; they never corrupt the totals. The payment-level
// principal/interest split is trusted as supplied; the core does not
// re-derive amortization tables. Under an interest_only schedule the
// balance is still driven purely by explicit principal attribution, which
// this formula already guarantees.
func ComputeBalance(loan *models.Loan, payments []models.Payment) Balance {
	b := Balance{
		TotalPaid:     decimal.Zero,
		TotalInterest: decimal.Zero,
	}
	principalPaid := decimal.Zero
	for _, p := range payments {
		if !p.IsValid() {
			b.Anomalies = append(b.Anomalies,
				paymentAnomaly(loan.ID, p.ID, "amount", "non-positive payment amount excluded from balance"))
			continue
		}
		if p.Principal.IsNegative() {
			b.Anomalies = append(b.Anomalies,
				paymentAnomaly(loan.ID, p.ID, "principal", "negative principal portion coerced to zero"))
		} else {
			principalPaid = principalPaid.Add(p.Principal)
		}
		if p.Interest.IsNegative() {
			b.Anomalies = append(b.Anomalies,
				paymentAnomaly(loan.ID, p.ID, "interest", "negative interest portion coerced to zero"))
		} else {
			b.TotalInterest = b.TotalInterest.Add(p.Interest)
		}
		b.TotalPaid = b.TotalPaid.Add(p.Amount)
	}
	b.Remaining = loan.Principal.Sub(principalPaid)
	return b
}

// TotalPaid returns the sum of Amount over the valid payments.
func TotalPaid(loan *models.Loan, payments []models.Payment) decimal.Decimal {
	return ComputeBalance(loan, payments).TotalPaid
}

// TotalInterest returns the interest recognized across the valid payments.
func TotalInterest(loan *models.Loan, payments []models.Payment) decimal.Decimal {
	return ComputeBalance(loan, payments).TotalInterest
}

// RemainingBalance returns principal minus recorded principal payments.
func RemainingBalance(loan *models.Loan, payments []models.Payment) decimal.Decimal {
	return ComputeBalance(loan, payments).Remaining
}
