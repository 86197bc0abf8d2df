package statemachine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lendtrack/lendtrack-api/internal/models"
)

func TestSettleActiveAdvance(t *testing.T) {
	advance := &models.Advance{ID: uuid.New(), Status: models.AdvanceStatusActive}

	err := NewAdvanceFSM(advance).Settle(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, models.AdvanceStatusPaid, advance.Status)
	assert.NotNil(t, advance.SettledAt)
}

func TestSettleRejectsSettledAdvance(t *testing.T) {
	advance := &models.Advance{ID: uuid.New(), Status: models.AdvanceStatusPaid}

	err := NewAdvanceFSM(advance).Settle(context.Background())

	assert.ErrorIs(t, err, ErrNotActive)
	assert.Nil(t, advance.SettledAt)
}
