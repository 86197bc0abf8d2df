package statemachine

import (
	"context"
	"errors"

	"github.com/looplab/fsm"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// ErrNotEligible is returned when a transition is attempted from a state
// that does not permit it. The input entity is left unchanged.
var ErrNotEligible = errors.New("loan is not eligible for archiving: only paid loans can be archived")

// LoanFSM is the archive gate: the one and only code path allowed to
// produce the archived status. The status engine derives every other
// status but never this one: archiving removes a loan from default views
// and must be an explicit, audited decision, not a side effect of balance
// math.
type LoanFSM struct {
	loan *models.Loan
	fsm  *fsm.FSM
}

// NewLoanFSM creates the archive state machine for a loan
func NewLoanFSM(loan *models.Loan) *LoanFSM {
	lfsm := &LoanFSM{
		loan: loan,
	}

	lfsm.fsm = fsm.NewFSM(
		loan.Status,
		fsm.Events{
			// paid → archived, the only transition this machine knows
			{Name: "archive", Src: []string{models.LoanStatusPaid}, Dst: models.LoanStatusArchived},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Archive transitions the loan from paid to archived. Any other source
// status yields ErrNotEligible and leaves the loan untouched. Calling it on
// an already-archived loan is also ErrNotEligible: archived is terminal.
func (l *LoanFSM) Archive(ctx context.Context) error {
	if !l.loan.MayArchive() {
		return ErrNotEligible
	}

	if err := l.fsm.Event(ctx, "archive"); err != nil {
		return ErrNotEligible
	}

	l.loan.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LoanFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LoanFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
