package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the profile owned by this service, keyed by Farcaster ID.
// A wallet must be bound to the FID before any claim signature is issued.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	FID      int64  `gorm:"column:fid;uniqueIndex;not null" json:"fid"`
	Username string `gorm:"index" json:"username,omitempty"`

	WalletAddress string `gorm:"index" json:"wallet_address,omitempty"`

	// Streak is the consecutive-UTC-day counter. Mutated only by the
	// claim-confirm and game-end flows, never by reads.
	Streak        int        `gorm:"default:0" json:"streak"`
	LastClaimedAt *time.Time `json:"last_claimed_at,omitempty"`

	TotalPoints  int64 `gorm:"default:0" json:"total_points"`
	WeeklyPoints int64 `gorm:"default:0" json:"weekly_points"`
	HighScore    int64 `gorm:"default:0" json:"high_score"`

	Timestamps
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
