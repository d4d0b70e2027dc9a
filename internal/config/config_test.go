package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskboard/internal/view"
)

var keys = []string{
	"TASKBOARD_SEED", "TASKBOARD_LOG_FILE", "TASKBOARD_LOG_LEVEL", "TASKBOARD_CLOSE_DELAY",
	"TASKBOARD_VIEW", "TASKBOARD_COLLAB", "TASKBOARD_MD_STYLE", "TASKBOARD_USER_ID",
	"TASKBOARD_USER_NAME", "TASKBOARD_USER_EMAIL", "TASKBOARD_USER_AVATAR", "TASKBOARD_ORG",
}

// clearEnv unsets every config key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	t.Setenv("USER", "ana")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("", cfg.SeedPath)
	assert.Equal("/tmp/state/taskboard/debug.log", cfg.LogFile)
	assert.Equal("info", cfg.LogLevel)
	assert.Equal(200*time.Millisecond, cfg.CloseDelay)
	assert.Equal(view.List, cfg.View)
	assert.Equal(CollabLocal, cfg.Collab)
	assert.Equal("dark", cfg.MarkdownStyle)
	assert.Equal("me", cfg.Identity.ID)
	assert.Equal("ana", cfg.Identity.Name)
	assert.Equal("default", cfg.Identity.OrganizationID)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKBOARD_CLOSE_DELAY", "1s")
	t.Setenv("TASKBOARD_VIEW", "docs")
	t.Setenv("TASKBOARD_COLLAB", "OFF")
	t.Setenv("TASKBOARD_ORG", "acme")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.CloseDelay)
	assert.Equal(t, view.Document, cfg.View)
	assert.Equal(t, CollabOff, cfg.Collab)
	assert.Equal(t, "acme", cfg.Identity.OrganizationID)
}

func TestDotEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKBOARD_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TASKBOARD_SEED=/data/seed.toml\nTASKBOARD_LOG_LEVEL=debug\n"), 0o644))

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/seed.toml", cfg.SeedPath)
	// the process environment wins over the file
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestInvalidValues(t *testing.T) {
	tests := map[string]string{
		"TASKBOARD_CLOSE_DELAY": "soon",
		"TASKBOARD_VIEW":        "gantt",
		"TASKBOARD_COLLAB":      "cloud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorContains(t, err, key)
		})
	}

	t.Run("negative delay", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TASKBOARD_CLOSE_DELAY", "-5ms")
		_, err := load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}
