package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listen: ":8080"
admin:
  enabled: true
  listen: ":8081"
logger:
  level: debug
storage:
  database: /tmp/olympreg.db
auth:
  jwt:
    secret: test-secret
    expire_hours: 24
  local:
    enabled: true
telegram:
  enabled: true
  bot_token: "123:abc"
scoring:
  - stage: school
    winner_threshold: 100
    prize_threshold: 50
    winner_points: 100
    prize_points: 50
    winner_medal: silver
    prize_medal: bronze
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.True(t, cfg.Admin.Enabled)
	assert.Equal(t, "test-secret", cfg.Auth.JWT.Secret)
	assert.Equal(t, 24, cfg.Auth.JWT.ExpireHours)
	assert.True(t, cfg.Telegram.Enabled)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
	require.Len(t, cfg.Scoring, 1)
	assert.Equal(t, "school", cfg.Scoring[0].Stage)
	assert.Equal(t, "silver", cfg.Scoring[0].WinnerMedal)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
listen: ":8080"
auth:
  jwt:
    secret: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 72, cfg.Auth.JWT.ExpireHours)
	assert.Empty(t, cfg.Scoring)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	path := writeConfig(t, `listen: ":8080"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt.secret")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
