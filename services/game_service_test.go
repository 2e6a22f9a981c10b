package services

import (
	"testing"
	"time"

	"enb-blast-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndSession_UnknownSessionNotFound(t *testing.T) {
	svc := NewGameService(newTestDB(t), nil)

	_, err := svc.EndSession(42, "b6f1f6f0-0000-0000-0000-000000000000", nil, time.Now().UTC())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEndSession_OtherUsersSessionNotFound(t *testing.T) {
	svc := NewGameService(newTestDB(t), nil)

	session, err := svc.StartSession(42)
	require.NoError(t, err)

	_, err = svc.EndSession(43, session.ID, []models.GameEvent{collect(models.ItemPicture)}, session.StartTime.Add(30*time.Second))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The owner's session is untouched by the failed attempt.
	var got models.GameSession
	require.NoError(t, svc.DB.Where("id = ?", session.ID).First(&got).Error)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Nil(t, got.EndTime)
}

func TestEndSession_TerminalTransitionHappensOnce(t *testing.T) {
	svc := NewGameService(newTestDB(t), nil)

	session, err := svc.StartSession(42)
	require.NoError(t, err)

	events := []models.GameEvent{
		collect(models.ItemPicture),
		collect(models.ItemPowerUpPoint5),
	}
	endAt := session.StartTime.Add(30 * time.Second)

	first, err := svc.EndSession(42, session.ID, events, endAt)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, first.Status)
	assert.Equal(t, int64(25), first.Score)
	assert.True(t, first.IsNewHighScore)
	assert.Equal(t, 1, first.Streak)

	var user models.User
	require.NoError(t, svc.DB.Where("fid = ?", int64(42)).First(&user).Error)
	assert.Equal(t, int64(25), user.TotalPoints)
	assert.Equal(t, int64(25), user.WeeklyPoints)
	assert.Equal(t, int64(25), user.HighScore)

	// Replaying the same batch against the now-terminal session is refused
	// and must not touch the profile.
	_, err = svc.EndSession(42, session.ID, events, endAt.Add(time.Second))
	assert.ErrorIs(t, err, ErrSessionNotFound)

	var after models.User
	require.NoError(t, svc.DB.Where("fid = ?", int64(42)).First(&after).Error)
	assert.Equal(t, int64(25), after.TotalPoints)
	assert.Equal(t, int64(25), after.WeeklyPoints)
	assert.Equal(t, 1, after.Streak)

	var got models.GameSession
	require.NoError(t, svc.DB.Where("id = ?", session.ID).First(&got).Error)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, int64(25), got.Score)
}

func TestStartSession_AbandonsPreviousInProgress(t *testing.T) {
	svc := NewGameService(newTestDB(t), nil)

	first, err := svc.StartSession(42)
	require.NoError(t, err)
	second, err := svc.StartSession(42)
	require.NoError(t, err)

	var got models.GameSession
	require.NoError(t, svc.DB.Where("id = ?", first.ID).First(&got).Error)
	assert.Equal(t, models.StatusAbandoned, got.Status)

	got = models.GameSession{}
	require.NoError(t, svc.DB.Where("id = ?", second.ID).First(&got).Error)
	assert.Equal(t, models.StatusInProgress, got.Status)
}
