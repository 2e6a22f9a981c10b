// services/task_service.go
package services

import (
	"context"
	"errors"
	"log"

	"enb-blast-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskKey is the closed set of one-time social tasks. Dispatch is a switch
// over this type so an unknown key is an explicit error, not a silent map
// miss.
type TaskKey string

const (
	TaskFollowChannel TaskKey = "follow_channel"
	TaskAddMiniApp    TaskKey = "add_miniapp"
	TaskShareCast     TaskKey = "share_cast"
	TaskSecretCode    TaskKey = "secret_code"
)

var (
	ErrUnknownTaskKey       = errors.New("unknown task key")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrInvalidSecretCode    = errors.New("incorrect secret code")

	// ErrEasterEgg is a distinguished outcome, not a failure: the handler
	// maps it to HTTP 418. Returned, never panicked.
	ErrEasterEgg = errors.New("short and stout")
)

const (
	secretCode    = "ENBLAST"
	easterEggCode = "teapot"
)

// Points returns the reward for a task key, or ErrUnknownTaskKey.
func (k TaskKey) Points() (int64, error) {
	switch k {
	case TaskFollowChannel:
		return 250, nil
	case TaskAddMiniApp:
		return 400, nil
	case TaskShareCast:
		return 150, nil
	case TaskSecretCode:
		return 1000, nil
	default:
		return 0, ErrUnknownTaskKey
	}
}

// CheckSecretCode validates a submitted code. The easter-egg code
// short-circuits with ErrEasterEgg.
func CheckSecretCode(code string) error {
	switch code {
	case easterEggCode:
		return ErrEasterEgg
	case secretCode:
		return nil
	default:
		return ErrInvalidSecretCode
	}
}

type TaskService struct {
	DB          *gorm.DB
	Leaderboard *LeaderboardService
}

func NewTaskService(db *gorm.DB, leaderboard *LeaderboardService) *TaskService {
	return &TaskService{DB: db, Leaderboard: leaderboard}
}

// Complete records a one-time task and credits its points atomically.
// Duplicate completion is a conflict; retrying cannot re-credit.
func (s *TaskService) Complete(fid int64, key TaskKey, code string) (*models.TaskCompletion, error) {
	points, err := key.Points()
	if err != nil {
		return nil, err
	}
	if key == TaskSecretCode {
		if err := CheckSecretCode(code); err != nil {
			return nil, err
		}
	}

	completion := &models.TaskCompletion{
		ID:            uuid.NewString(),
		FID:           fid,
		TaskKey:       string(key),
		PointsAwarded: points,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.TaskCompletion
		err := tx.Where("fid = ? AND task_key = ?", fid, string(key)).First(&existing).Error
		if err == nil {
			return ErrTaskAlreadyCompleted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(completion).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Where(models.User{FID: fid}).FirstOrCreate(&user).Error; err != nil {
			return err
		}
		user.TotalPoints += points
		user.WeeklyPoints += points
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}

	// Weekly board mirrors the weekly_points column; cache only, best effort.
	if s.Leaderboard != nil {
		if err := s.Leaderboard.AddWeeklyPoints(context.Background(), fid, points); err != nil {
			log.Printf("leaderboard update failed for fid %d: %v", fid, err)
		}
	}
	return completion, nil
}
