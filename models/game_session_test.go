package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameStatusTerminal(t *testing.T) {
	assert.False(t, StatusInProgress.Terminal())

	for _, s := range []GameStatus{StatusCompleted, StatusTimedOut, StatusInvalidScore, StatusAbandoned} {
		assert.True(t, s.Terminal(), "%s must be terminal", s)
	}

	assert.False(t, GameStatus("PAUSED").Terminal(), "unknown statuses are not terminal")
}
