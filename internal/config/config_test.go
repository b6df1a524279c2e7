package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chancellor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
seed: 99
difficulty: hard
fiscal_rule: debt_anchor
turns: 24
log_format: json
api:
  port: 9090
  turn_rate_per_hour: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "hard", cfg.Difficulty)
	assert.Equal(t, "debt_anchor", cfg.FiscalRule)
	assert.Equal(t, 24, cfg.Turns)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, 10, cfg.API.TurnRatePerHour)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "seed: 5\ndifficulty: easy\n")
	t.Setenv("CHANCELLOR_SEED", "77")
	t.Setenv("CHANCELLOR_ADMIN_KEY", "hunter2")
	t.Setenv("CHANCELLOR_STRICT", "true")
	t.Setenv("CHANCELLOR_PORT", "7000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(77), cfg.Seed)
	assert.Equal(t, "easy", cfg.Difficulty)
	assert.Equal(t, "hunter2", cfg.API.AdminKey)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 7000, cfg.API.Port)
}

func TestBadValuesAreRejected(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("CHANCELLOR_TURNS", "many")
		_, err := Load("")
		assert.ErrorContains(t, err, "CHANCELLOR_TURNS")
	})
	t.Run("difficulty", func(t *testing.T) {
		_, err := Load(writeFile(t, "difficulty: impossible\n"))
		assert.ErrorContains(t, err, "impossible")
	})
	t.Run("rule", func(t *testing.T) {
		_, err := Load(writeFile(t, "fiscal_rule: vibes\n"))
		assert.ErrorContains(t, err, "vibes")
	})
	t.Run("yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "turns: [1, 2\n"))
		assert.ErrorContains(t, err, "parse config")
	})
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}
