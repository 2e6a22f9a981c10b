// chain/status.go
package chain

import (
	"math/big"
	"time"
)

// ClaimState is derived from contract reads, never stored.
type ClaimState struct {
	ClaimsLeft     int64      `json:"claims_left"`
	MaxClaims      int64      `json:"max_claims"`
	IsOnCooldown   bool       `json:"is_on_cooldown"`
	CooldownEndsAt *time.Time `json:"cooldown_ends_at,omitempty"`
	Nonce          uint64     `json:"nonce"`
}

// DeriveClaimState computes how many claims remain in the current cycle.
// When the cycle is exhausted and the cooldown has lapsed, the allowance is
// treated as replenished; claimsLeft never goes negative.
func DeriveClaimState(profile *UserProfile, maxClaims, cooldownSec *big.Int, now time.Time) ClaimState {
	max := maxClaims.Int64()
	state := ClaimState{
		MaxClaims:  max,
		ClaimsLeft: max - profile.ClaimsInCurrentCycle.Int64(),
		Nonce:      profile.ClaimNonce.Uint64(),
	}

	if state.ClaimsLeft <= 0 {
		lastClaim := time.Unix(profile.LastClaimTimestamp.Int64(), 0).UTC()
		cooldownEnd := lastClaim.Add(time.Duration(cooldownSec.Int64()) * time.Second)
		if now.Before(cooldownEnd) {
			state.IsOnCooldown = true
			state.ClaimsLeft = 0
			state.CooldownEndsAt = &cooldownEnd
		} else {
			state.ClaimsLeft = max
		}
	}

	if state.ClaimsLeft < 0 {
		state.ClaimsLeft = 0
	}
	return state
}
