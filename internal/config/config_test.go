package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := FromMap(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "gpt-4o-mini", c.OpenAIModel)
	assert.Equal(t, 8*time.Second, c.QuizTimeout)
	assert.Equal(t, 12*time.Hour, c.SeatTokenTTL)
	assert.Equal(t, logrus.InfoLevel, c.Level())
	assert.False(t, c.QuizEnabled())
	assert.Empty(t, c.RedisAddr)
}

func TestOverrides(t *testing.T) {
	c, err := FromMap(map[string]string{
		"SOJOURN_ADDR":           "127.0.0.1:9000",
		"SOJOURN_LOG_LEVEL":      "debug",
		"SOJOURN_QUIZ_TIMEOUT":   "2500ms",
		"SOJOURN_OPENAI_API_KEY": "sk-test",
		"SOJOURN_REDIS_ADDR":     "localhost:6379",
	})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", c.Addr)
	assert.Equal(t, logrus.DebugLevel, c.Level())
	assert.Equal(t, 2500*time.Millisecond, c.QuizTimeout)
	assert.True(t, c.QuizEnabled())
	assert.Equal(t, "localhost:6379", c.RedisAddr)
}

func TestBadDuration(t *testing.T) {
	_, err := FromMap(map[string]string{"SOJOURN_QUIZ_TIMEOUT": "soon"})
	assert.Error(t, err)
}

func TestUnknownLevelFallsBack(t *testing.T) {
	c := Config{LogLevel: "chatty"}
	assert.Equal(t, logrus.InfoLevel, c.Level())
}
