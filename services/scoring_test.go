package services

import (
	"testing"
	"time"

	"enb-blast-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(item models.ItemType) models.GameEvent {
	return models.GameEvent{Type: models.EventCollect, ItemType: item}
}

func bomb() models.GameEvent {
	return models.GameEvent{Type: models.EventBombHit}
}

func TestReconcileScore_CollectOnlySums(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Second)

	events := []models.GameEvent{
		collect(models.ItemPicture),
		collect(models.ItemPowerUpPoint2),
		collect(models.ItemPowerUpPoint5),
		collect(models.ItemPowerUpPoint10),
		collect(models.ItemPowerUpPumpkin),
		collect(models.ItemPowerUpPumpkin),
	}

	res := ReconcileScore(start, now, events)
	require.Equal(t, models.StatusCompleted, res.Status)
	assert.Equal(t, int64(5+10+20+30+15+15), res.Score)
	assert.Equal(t, 2, res.PumpkinsCollected)
}

func TestReconcileScore_UnknownItemScoresZero(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Second)

	res := ReconcileScore(start, now, []models.GameEvent{
		collect(models.ItemPicture),
		collect(models.ItemType("powerup_from_the_future")),
	})
	require.Equal(t, models.StatusCompleted, res.Status)
	assert.Equal(t, int64(5), res.Score)
}

func TestReconcileScore_BombPenalty(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	now := start.Add(40 * time.Second)

	tests := []struct {
		name      string
		events    []models.GameEvent
		wantScore int64
	}{
		{
			// 5+30+30+30 = 95 <= 100 → floor(95*0.5) = 47
			name: "half at or below 100",
			events: []models.GameEvent{
				collect(models.ItemPicture),
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPowerUpPoint10),
				bomb(),
			},
			wantScore: 47,
		},
		{
			// 30*4 = 120 > 100 → floor(120*0.4) = 48
			name: "0.4x above 100",
			events: []models.GameEvent{
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPowerUpPoint10),
				bomb(),
			},
			wantScore: 48,
		},
		{
			// 30*3 + 5*3 = 105 > 100 → floor(105*0.4) = 42, not 42.0 rounded
			name: "floor on odd 0.4x result",
			events: []models.GameEvent{
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPowerUpPoint10),
				collect(models.ItemPicture),
				collect(models.ItemPicture),
				collect(models.ItemPicture),
				bomb(),
			},
			wantScore: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ReconcileScore(start, now, tt.events)
			require.Equal(t, models.StatusCompleted, res.Status)
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

func TestReconcileScore_BombForfeitsPumpkinsOnly(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Second)

	res := ReconcileScore(start, now, []models.GameEvent{
		collect(models.ItemPowerUpPumpkin),
		collect(models.ItemPowerUpPumpkin),
		bomb(),
		collect(models.ItemPowerUpPumpkin),
	})
	require.Equal(t, models.StatusCompleted, res.Status)
	// 15+15=30 → bomb → 15, pumpkins 0 → +15 and one pumpkin after.
	assert.Equal(t, int64(30), res.Score)
	assert.Equal(t, 1, res.PumpkinsCollected)
}

// Scenario pinned from observed gameplay: 5+5+30=40, bomb halves to 20,
// final picture brings it to 25 with pumpkins at 0.
func TestReconcileScore_ReferenceScenario(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	now := start.Add(20 * time.Second)

	res := ReconcileScore(start, now, []models.GameEvent{
		collect(models.ItemPicture),
		collect(models.ItemPicture),
		collect(models.ItemPowerUpPoint10),
		bomb(),
		collect(models.ItemPicture),
	})
	require.Equal(t, models.StatusCompleted, res.Status)
	assert.Equal(t, int64(25), res.Score)
	assert.Equal(t, 0, res.PumpkinsCollected)
}

func TestReconcileScore_DurationBoundary(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	limit := time.Duration(GameDurationSeconds+GracePeriodSeconds) * time.Second

	res := ReconcileScore(start, start.Add(limit), []models.GameEvent{collect(models.ItemPicture)})
	assert.Equal(t, models.StatusCompleted, res.Status, "exactly at the limit is accepted")

	res = ReconcileScore(start, start.Add(limit+time.Millisecond), []models.GameEvent{collect(models.ItemPicture)})
	assert.Equal(t, models.StatusTimedOut, res.Status)
	assert.Equal(t, int64(0), res.Score)
	assert.Equal(t, 0, res.PumpkinsCollected)
}

func TestReconcileScore_RateBoundary(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	now := start.Add(10 * time.Second)
	maxEvents := 10 * MaxEventsPerSecond

	events := make([]models.GameEvent, 0, maxEvents+1)
	for i := 0; i < maxEvents; i++ {
		events = append(events, collect(models.ItemPicture))
	}

	res := ReconcileScore(start, now, events)
	assert.Equal(t, models.StatusCompleted, res.Status, "exactly maxPossibleEvents is accepted")

	events = append(events, collect(models.ItemPicture))
	res = ReconcileScore(start, now, events)
	assert.Equal(t, models.StatusInvalidScore, res.Status)
	assert.Equal(t, int64(0), res.Score)
}

func TestReconcileScore_Deterministic(t *testing.T) {
	start := time.Date(2025, 10, 31, 12, 0, 0, 0, time.UTC)
	now := start.Add(25 * time.Second)
	events := []models.GameEvent{
		collect(models.ItemPowerUpPumpkin),
		collect(models.ItemPowerUpPoint10),
		bomb(),
		collect(models.ItemPicture),
	}

	first := ReconcileScore(start, now, events)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ReconcileScore(start, now, events))
	}
}
