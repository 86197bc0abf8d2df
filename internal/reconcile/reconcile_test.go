package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

func TestReconcileReturnsOnlyChangedLoans(t *testing.T) {
	today := date(2026, 8, 28)

	current := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	late := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 7, 1))

	res := Reconcile([]models.Loan{current, late}, nil, today, Options{})

	assert.Len(t, res.Updated, 1)
	assert.Equal(t, late.ID, res.Updated[0].ID)
	assert.Equal(t, models.LoanStatusOverdue, res.Updated[0].Status)
	assert.Empty(t, res.ReachedPaid)
}

func TestReconcileIsIdempotent(t *testing.T) {
	today := date(2026, 8, 28)
	late := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 7, 1))
	loans := []models.Loan{late}

	first := Reconcile(loans, nil, today, Options{})
	assert.Len(t, first.Updated, 1)

	// Apply the diff and run again: the second pass must be a no-op.
	loans[0].Status = first.Updated[0].Status
	second := Reconcile(loans, nil, today, Options{})
	assert.True(t, second.Empty())
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	today := date(2026, 8, 28)
	late := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2026, 7, 1))
	loans := []models.Loan{late}

	Reconcile(loans, nil, today, Options{})

	assert.Equal(t, models.LoanStatusActive, loans[0].Status)
}

func TestReconcileReportsReachedPaid(t *testing.T) {
	loan := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	payments := map[uuid.UUID][]models.Payment{
		loan.ID: {payment(loan.ID, "1000", "1000", "0")},
	}

	res := Reconcile([]models.Loan{loan}, payments, date(2026, 8, 28), Options{})

	assert.Len(t, res.Updated, 1)
	assert.Equal(t, models.LoanStatusPaid, res.Updated[0].Status)
	assert.Equal(t, []uuid.UUID{loan.ID}, res.ReachedPaid)
}

func TestReconcileAlreadyPaidIsNotReported(t *testing.T) {
	loan := *statusLoan(models.LoanStatusPaid, date(2026, 1, 1), date(2027, 1, 1))
	payments := map[uuid.UUID][]models.Payment{
		loan.ID: {payment(loan.ID, "1000", "1000", "0")},
	}

	res := Reconcile([]models.Loan{loan}, payments, date(2026, 8, 28), Options{})

	assert.True(t, res.Empty())
	assert.Empty(t, res.ReachedPaid, "only fresh transitions to paid are reported")
}

func TestReconcileAggregatesAnomalies(t *testing.T) {
	a := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	b := *statusLoan(models.LoanStatusActive, date(2026, 1, 1), date(2027, 1, 1))
	payments := map[uuid.UUID][]models.Payment{
		a.ID: {payment(a.ID, "0", "0", "0")},
		b.ID: {payment(b.ID, "100", "-10", "0")},
	}

	res := Reconcile([]models.Loan{a, b}, payments, date(2026, 8, 28), Options{})

	assert.Len(t, res.Anomalies, 2, "one bad record per loan, neither blocks the pass")
}

func TestGroupPayments(t *testing.T) {
	loanA := uuid.New()
	loanB := uuid.New()
	payments := []models.Payment{
		payment(loanA, "10", "10", "0"),
		payment(loanB, "20", "20", "0"),
		payment(loanA, "30", "30", "0"),
	}

	grouped := GroupPayments(payments)

	assert.Len(t, grouped[loanA], 2)
	assert.Len(t, grouped[loanB], 1)
}
