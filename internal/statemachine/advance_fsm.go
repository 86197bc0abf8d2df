package statemachine

import (
	"context"
	"errors"
	"time"

	"github.com/looplab/fsm"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

// ErrNotActive is returned when settling an advance that is not active.
var ErrNotActive = errors.New("advance is not active: only active advances can be settled")

// AdvanceFSM guards the single lifecycle transition an advance has:
// active → paid.
type AdvanceFSM struct {
	advance *models.Advance
	fsm     *fsm.FSM
}

// NewAdvanceFSM creates the settle state machine for an advance
func NewAdvanceFSM(advance *models.Advance) *AdvanceFSM {
	afsm := &AdvanceFSM{
		advance: advance,
	}

	afsm.fsm = fsm.NewFSM(
		advance.Status,
		fsm.Events{
			{Name: "settle", Src: []string{models.AdvanceStatusActive}, Dst: models.AdvanceStatusPaid},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Settle transitions the advance to paid and stamps the settlement time
func (a *AdvanceFSM) Settle(ctx context.Context) error {
	if !a.advance.MaySettle() {
		return ErrNotActive
	}

	if err := a.fsm.Event(ctx, "settle"); err != nil {
		return ErrNotActive
	}

	now := time.Now()
	a.advance.Status = a.fsm.Current()
	a.advance.SettledAt = &now
	return nil
}

// Current returns the current state
func (a *AdvanceFSM) Current() string {
	return a.fsm.Current()
}
