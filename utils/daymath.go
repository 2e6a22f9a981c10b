// utils/daymath.go
package utils

import "time"

// Both streak mechanisms compare UTC calendar days, never 24h rolling
// windows. All day comparisons in the service go through these two helpers.

// SameUTCDay reports whether a and b fall on the same UTC calendar day.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// IsYesterdayUTC reports whether t falls on the UTC calendar day
// immediately before now's.
func IsYesterdayUTC(t, now time.Time) bool {
	return SameUTCDay(t, now.UTC().AddDate(0, 0, -1))
}
