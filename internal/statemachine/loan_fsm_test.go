package statemachine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

func TestArchivePaidLoan(t *testing.T) {
	loan := &models.Loan{ID: uuid.New(), Status: models.LoanStatusPaid}

	err := NewLoanFSM(loan).Archive(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.LoanStatusArchived, loan.Status)
}

func TestArchiveRejectsEveryOtherStatus(t *testing.T) {
	for _, status := range []string{
		models.LoanStatusPending,
		models.LoanStatusActive,
		models.LoanStatusOverdue,
		models.LoanStatusDefaulted,
		models.LoanStatusArchived,
	} {
		t.Run(status, func(t *testing.T) {
			loan := &models.Loan{ID: uuid.New(), Status: status}

			err := NewLoanFSM(loan).Archive(context.Background())

			assert.ErrorIs(t, err, ErrNotEligible)
			assert.Equal(t, status, loan.Status, "a rejected transition must not touch the loan")
		})
	}
}

func TestArchiveIsTerminal(t *testing.T) {
	loan := &models.Loan{ID: uuid.New(), Status: models.LoanStatusPaid}

	assert.NoError(t, NewLoanFSM(loan).Archive(context.Background()))
	assert.ErrorIs(t, NewLoanFSM(loan).Archive(context.Background()), ErrNotEligible)
	assert.Equal(t, models.LoanStatusArchived, loan.Status)
}

func TestLoanFSMCan(t *testing.T) {
	paid := NewLoanFSM(&models.Loan{Status: models.LoanStatusPaid})
	active := NewLoanFSM(&models.Loan{Status: models.LoanStatusActive})

	assert.True(t, paid.Can("archive"))
	assert.False(t, active.Can("archive"))
}
