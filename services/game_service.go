// services/game_service.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"enb-blast-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

type GameService struct {
	DB          *gorm.DB
	Leaderboard *LeaderboardService
}

func NewGameService(db *gorm.DB, leaderboard *LeaderboardService) *GameService {
	return &GameService{DB: db, Leaderboard: leaderboard}
}

// GameEndResult is what the end-of-session reconciliation reports back.
// Status INVALID_SCORE means the batch was rejected; the session is still
// terminally marked as a side effect of the rejection.
type GameEndResult struct {
	Status            models.GameStatus `json:"status"`
	Score             int64             `json:"score"`
	PumpkinsCollected int               `json:"pumpkins_collected"`
	IsNewHighScore    bool              `json:"is_new_high_score"`
	Streak            int               `json:"streak"`
	TimedOut          bool              `json:"timed_out"`
}

// StartSession creates a fresh IN_PROGRESS session. Any session still
// IN_PROGRESS for the FID is force-abandoned first — not an error, just
// cleanup for closed tabs and double-starts.
//
// Two truly simultaneous starts can both pass the abandon step and leave two
// IN_PROGRESS rows; the next start collapses them and the sweeper catches
// stragglers. Left unserialized on purpose, matching upstream behavior.
func (s *GameService) StartSession(fid int64) (*models.GameSession, error) {
	now := time.Now().UTC()
	session := &models.GameSession{
		ID:        uuid.NewString(),
		FID:       fid,
		StartTime: now,
		Status:    models.StatusInProgress,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GameSession{}).
			Where("fid = ? AND status = ?", fid, models.StatusInProgress).
			Updates(map[string]interface{}{
				"status":   models.StatusAbandoned,
				"end_time": now,
			}).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession replays the event batch into a trusted score and applies the
// single terminal transition. All profile mutations ride the same
// transaction as the session update, so a retried request cannot double
// credit points or streaks.
func (s *GameService) EndSession(fid int64, sessionID string, events []models.GameEvent, now time.Time) (*GameEndResult, error) {
	var result GameEndResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var session models.GameSession
		if err := tx.Where("id = ? AND fid = ? AND status = ?", sessionID, fid, models.StatusInProgress).
			First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		res := ReconcileScore(session.StartTime, now, events)

		endTime := now
		session.EndTime = &endTime
		session.Status = res.Status
		session.Score = res.Score
		session.PumpkinsCollected = res.PumpkinsCollected
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		result.Status = res.Status
		result.Score = res.Score
		result.PumpkinsCollected = res.PumpkinsCollected

		switch res.Status {
		case models.StatusTimedOut:
			// Informational, not a client error: score forced to 0.
			result.TimedOut = true
			return nil
		case models.StatusInvalidScore:
			// Rejection, with the INVALID_SCORE mark persisted.
			return nil
		}

		var user models.User
		if err := tx.Where(models.User{FID: fid}).FirstOrCreate(&user).Error; err != nil {
			return err
		}

		// Game streak keys off the previous COMPLETED session, not claims.
		var prev models.GameSession
		var lastCompleted *time.Time
		err := tx.Where("fid = ? AND status = ? AND id <> ?", fid, models.StatusCompleted, session.ID).
			Order("end_time DESC").
			First(&prev).Error
		if err == nil {
			lastCompleted = prev.EndTime
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user.Streak = NextGameStreak(user.Streak, lastCompleted, now)
		user.TotalPoints += res.Score
		user.WeeklyPoints += res.Score
		if res.Score > user.HighScore {
			user.HighScore = res.Score
			result.IsNewHighScore = true
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		result.Streak = user.Streak
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Leaderboard cache update is best-effort and stays outside the
	// transaction; the DB rows remain the source of truth.
	if result.Status == models.StatusCompleted && s.Leaderboard != nil && result.Score > 0 {
		if err := s.Leaderboard.AddWeeklyPoints(context.Background(), fid, result.Score); err != nil {
			log.Printf("leaderboard update failed for fid %d: %v", fid, err)
		}
	}

	return &result, nil
}
