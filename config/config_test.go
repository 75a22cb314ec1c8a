package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "DATABASE_URL", "ALLOWED_ORIGINS", "CELEBRATION_DELAY",
		"DRAW_MIN_INTERVAL", "DRAW_SEED", "DEFAULT_LOBBIES", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "4000", c.Port)
	assert.Empty(t, c.DatabaseURL)
	assert.Equal(t, []string{"http://localhost:3000"}, c.AllowedOrigins)
	assert.Equal(t, 4*time.Second, c.CelebrationDelay)
	assert.Equal(t, 200*time.Millisecond, c.DrawMinInterval)
	assert.Nil(t, c.DrawSeed)
	assert.Equal(t, []string{"main"}, c.DefaultLobbies)
	assert.Equal(t, "info", c.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("CELEBRATION_DELAY", "1500ms")
	t.Setenv("DRAW_MIN_INTERVAL", "0s")
	t.Setenv("DRAW_SEED", "1234")
	t.Setenv("DEFAULT_LOBBIES", "hall-a,hall-b")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
	assert.Equal(t, 1500*time.Millisecond, c.CelebrationDelay)
	assert.Equal(t, time.Duration(0), c.DrawMinInterval)
	require.NotNil(t, c.DrawSeed)
	assert.Equal(t, uint64(1234), *c.DrawSeed)
	assert.Equal(t, []string{"hall-a", "hall-b"}, c.DefaultLobbies)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"CELEBRATION_DELAY": "soon",
		"DRAW_MIN_INTERVAL": "-1s",
		"DRAW_SEED":         "abc",
		"LOG_LEVEL":         "loud",
		"ALLOWED_ORIGINS":   " , ",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}

func TestSetupDatabase_RequiresDSN(t *testing.T) {
	_, err := SetupDatabase("")
	assert.Error(t, err)
}
