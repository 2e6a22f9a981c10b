package models

import "time"

// GameStatus is the lifecycle state of a play session. IN_PROGRESS is the
// only non-terminal state; a session is mutated to a terminal state exactly
// once and never transitions out of it.
type GameStatus string

const (
	StatusInProgress   GameStatus = "IN_PROGRESS"
	StatusCompleted    GameStatus = "COMPLETED"
	StatusTimedOut     GameStatus = "TIMED_OUT"
	StatusInvalidScore GameStatus = "INVALID_SCORE"
	StatusAbandoned    GameStatus = "ABANDONED"
)

// Terminal reports whether a session in this status can no longer change.
func (s GameStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusTimedOut, StatusInvalidScore, StatusAbandoned:
		return true
	}
	return false
}

// GameSession is one timed play-through. At most one IN_PROGRESS session
// exists per FID; starting a new one abandons any prior IN_PROGRESS session.
type GameSession struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	FID       int64      `gorm:"column:fid;index;not null" json:"fid"`
	StartTime time.Time  `gorm:"not null" json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Status    GameStatus `gorm:"index;not null;default:'IN_PROGRESS'" json:"status"`

	// Server-computed, never taken from the client.
	Score             int64 `gorm:"default:0" json:"score"`
	PumpkinsCollected int   `gorm:"default:0" json:"pumpkins_collected"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
