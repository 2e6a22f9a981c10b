// services/leaderboard.go
package services

import (
	"context"
	"strconv"

	"enb-blast-service/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const weeklyLeaderboardKey = "leaderboard:weekly"

// LeaderboardService keeps the weekly board in a redis sorted set for cheap
// reads; the all-time board comes straight from the users table. Redis is a
// cache — a miss or failure never blocks gameplay.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	FID      int64  `json:"fid"`
	Username string `json:"username,omitempty"`
	Points   int64  `json:"points"`
}

// AddWeeklyPoints bumps the FID's weekly zset score.
func (s *LeaderboardService) AddWeeklyPoints(ctx context.Context, fid, points int64) error {
	return s.RDB.ZIncrBy(ctx, weeklyLeaderboardKey, float64(points), strconv.FormatInt(fid, 10)).Err()
}

// TopWeekly returns the weekly board from redis, usernames joined from the DB.
func (s *LeaderboardService) TopWeekly(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	zs, err := s.RDB.ZRevRangeWithScores(ctx, weeklyLeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	fids := make([]int64, 0, len(zs))
	for i, z := range zs {
		fid, err := strconv.ParseInt(z.Member.(string), 10, 64)
		if err != nil {
			continue
		}
		fids = append(fids, fid)
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			FID:    fid,
			Points: int64(z.Score),
		})
	}

	if len(fids) > 0 {
		var users []models.User
		if err := s.DB.Where("fid IN ?", fids).Find(&users).Error; err != nil {
			return nil, err
		}
		names := make(map[int64]string, len(users))
		for _, u := range users {
			names[u.FID] = u.Username
		}
		for i := range entries {
			entries[i].Username = names[entries[i].FID]
		}
	}

	return entries, nil
}

// TopAllTime reads the all-time board from the users table.
func (s *LeaderboardService) TopAllTime(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var users []models.User
	if err := s.DB.Where("total_points > 0").
		Order("total_points DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:     i + 1,
			FID:      u.FID,
			Username: u.Username,
			Points:   u.TotalPoints,
		}
	}
	return entries, nil
}

// ResetWeekly drops the weekly zset; the weekly_points column is reset by
// the scheduler in the same job.
func (s *LeaderboardService) ResetWeekly(ctx context.Context) error {
	return s.RDB.Del(ctx, weeklyLeaderboardKey).Err()
}
