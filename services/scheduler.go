// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"enb-blast-service/models"

	"github.com/go-co-op/gocron/v2"
)

// Sessions older than this without a terminal transition were abandoned by
// the client (closed tab, lost connection). Well past the 50s scoring limit.
const staleSessionCutoff = 10 * time.Minute

// StartMaintenanceScheduler runs the stale-session sweeper every minute and
// the weekly points reset at Monday 00:00 UTC.
func (s *GameService) StartMaintenanceScheduler() {
	sched, _ := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	sched.Start()

	// Every minute: abandon sessions the client never finished.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			cutoff := time.Now().UTC().Add(-staleSessionCutoff)
			result := s.DB.Model(&models.GameSession{}).
				Where("status = ? AND start_time < ?", models.StatusInProgress, cutoff).
				Updates(map[string]interface{}{
					"status":   models.StatusAbandoned,
					"end_time": time.Now().UTC(),
				})
			if result.Error != nil {
				log.Printf("[Scheduler] stale session sweep failed: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				log.Printf("[Scheduler] abandoned %d stale session(s)", result.RowsAffected)
			}
		}),
	)

	// Monday 00:00 UTC: zero weekly points and drop the weekly board.
	_, _ = sched.NewJob(
		gocron.CronJob("0 0 * * 1", false),
		gocron.NewTask(func() {
			if err := s.DB.Model(&models.User{}).
				Where("weekly_points > 0").
				Update("weekly_points", 0).Error; err != nil {
				log.Printf("[Scheduler] weekly points reset failed: %v", err)
				return
			}
			if s.Leaderboard != nil {
				if err := s.Leaderboard.ResetWeekly(context.Background()); err != nil {
					log.Printf("[Scheduler] weekly leaderboard reset failed: %v", err)
				}
			}
			log.Println("✅ Weekly points reset")
		}),
	)
}
