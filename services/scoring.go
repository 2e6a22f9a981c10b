// services/scoring.go
package services

import (
	"time"

	"enb-blast-service/models"
)

// Anti-cheat limits. A game lasts 30s; the grace period absorbs network and
// submit latency before a session is forced TIMED_OUT.
const (
	GameDurationSeconds = 30
	GracePeriodSeconds  = 20
	MaxEventsPerSecond  = 5
)

// ItemValues are the server-side point values. The client's idea of an
// item's worth is never consulted.
var ItemValues = map[models.ItemType]int64{
	models.ItemPicture:        5,
	models.ItemPowerUpPoint2:  10,
	models.ItemPowerUpPoint5:  20,
	models.ItemPowerUpPoint10: 30,
	models.ItemPowerUpPumpkin: 15,
}

// ScoreResult is the outcome of replaying a session's event batch.
// Status is one of COMPLETED, TIMED_OUT or INVALID_SCORE.
type ScoreResult struct {
	Status            models.GameStatus
	Score             int64
	PumpkinsCollected int
}

// ReconcileScore replays the client event batch into a trusted score.
// It is pure: no clock reads, no randomness — the caller supplies now.
//
// Duration and rate checks run before any event is processed. A bomb hit
// halves the score (0.4x above 100 points) and forfeits all pumpkins
// collected so far; the pumpkin-only reset is deliberate observed policy.
func ReconcileScore(sessionStart, now time.Time, events []models.GameEvent) ScoreResult {
	duration := now.Sub(sessionStart).Seconds()
	if duration < 0 {
		duration = 0
	}

	if duration > float64(GameDurationSeconds+GracePeriodSeconds) {
		return ScoreResult{Status: models.StatusTimedOut}
	}

	maxPossibleEvents := int(duration * MaxEventsPerSecond)
	if len(events) > maxPossibleEvents {
		return ScoreResult{Status: models.StatusInvalidScore}
	}

	var score int64
	pumpkins := 0
	for _, ev := range events {
		switch ev.Type {
		case models.EventCollect:
			score += ItemValues[ev.ItemType] // unknown item types contribute 0
			if ev.ItemType == models.ItemPowerUpPumpkin {
				pumpkins++
			}
		case models.EventBombHit:
			if score <= 100 {
				score = score / 2
			} else {
				score = score * 2 / 5
			}
			pumpkins = 0
		}
	}

	return ScoreResult{
		Status:            models.StatusCompleted,
		Score:             score,
		PumpkinsCollected: pumpkins,
	}
}
