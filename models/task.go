package models

import "time"

// TaskCompletion records a one-time social task reward. The composite unique
// index makes duplicate completion a constraint violation, not just a
// read-then-write check.
type TaskCompletion struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	FID           int64     `gorm:"column:fid;uniqueIndex:idx_task_fid_key;not null" json:"fid"`
	TaskKey       string    `gorm:"uniqueIndex:idx_task_fid_key;not null" json:"task_key"`
	PointsAwarded int64     `gorm:"not null" json:"points_awarded"`
	CompletedAt   time.Time `json:"completed_at" gorm:"autoCreateTime"`
}
