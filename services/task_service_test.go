package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskKeyPoints(t *testing.T) {
	for _, key := range []TaskKey{TaskFollowChannel, TaskAddMiniApp, TaskShareCast, TaskSecretCode} {
		points, err := key.Points()
		require.NoError(t, err, "key %s", key)
		assert.Positive(t, points)
	}

	_, err := TaskKey("retweet_and_subscribe").Points()
	assert.ErrorIs(t, err, ErrUnknownTaskKey)

	_, err = TaskKey("").Points()
	assert.ErrorIs(t, err, ErrUnknownTaskKey)
}

func TestCheckSecretCode(t *testing.T) {
	assert.NoError(t, CheckSecretCode(secretCode))
	assert.ErrorIs(t, CheckSecretCode("wrong"), ErrInvalidSecretCode)
	assert.ErrorIs(t, CheckSecretCode(easterEggCode), ErrEasterEgg)
}
