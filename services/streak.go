// services/streak.go
package services

import (
	"time"

	"enb-blast-service/utils"
)

// Two independent streak mechanisms exist and must not be conflated:
// the claim streak is keyed off lastClaimedAt, the game streak off the end
// time of the previous COMPLETED session. Both compare UTC calendar days
// through utils/daymath.

// NextClaimStreak returns the streak value after a confirmed claim at now.
// Same UTC day → unchanged; claimed yesterday → +1; anything else → reset to 1.
func NextClaimStreak(current int, lastClaimedAt *time.Time, now time.Time) int {
	if lastClaimedAt == nil {
		return 1
	}
	if utils.SameUTCDay(*lastClaimedAt, now) {
		return current
	}
	if utils.IsYesterdayUTC(*lastClaimedAt, now) {
		return current + 1
	}
	return 1
}

// NextGameStreak returns the streak value after a COMPLETED session at now,
// given the end time of the user's previous COMPLETED session. Same rules as
// the claim streak, except the first play of a day always yields at least 1.
func NextGameStreak(current int, lastCompletedAt *time.Time, now time.Time) int {
	if lastCompletedAt == nil {
		return 1
	}
	if utils.SameUTCDay(*lastCompletedAt, now) {
		if current == 0 {
			return 1
		}
		return current
	}
	if utils.IsYesterdayUTC(*lastCompletedAt, now) {
		return current + 1
	}
	return 1
}
