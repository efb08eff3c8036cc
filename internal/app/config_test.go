package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazyvibe/ghopen/internal/model"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, model.PickerDialog, cfg.Picker)
	assert.Equal(t, []string{"https://github.com/"}, cfg.HostPrefixes)
	assert.True(t, cfg.Notification.Desktop)
	assert.Zero(t, cfg.Timeout())
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Picker = model.PickerFuzzy
	cfg.SearchRoots = []string{"/srv/src"}
	cfg.TimeoutSeconds = 90
	cfg.Notification.WebhookURL = "http://localhost:9/hook"

	require.NoError(t, SaveConfig(dir, cfg))

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, model.PickerFuzzy, loaded.Picker)
	assert.Equal(t, []string{"/srv/src"}, loaded.SearchRoots)
	assert.Equal(t, 90*time.Second, loaded.Timeout())
	assert.Equal(t, "http://localhost:9/hook", loaded.Notification.WebhookURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("GHOPEN_PICKER", "fuzzy")
	t.Setenv("GHOPEN_TIMEOUT", "2m")
	t.Setenv("GHOPEN_DESKTOP_NOTIFICATIONS", "false")
	t.Setenv("GHOPEN_SEARCH_ROOTS", "/a,/b")
	t.Setenv("GHOPEN_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, model.PickerFuzzy, cfg.Picker)
	assert.Equal(t, 2*time.Minute, cfg.Timeout())
	assert.False(t, cfg.Notification.Desktop)
	assert.Equal(t, []string{"/a", "/b"}, cfg.SearchRoots)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsUnknownPicker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"picker":"zenity"}`), 0644))

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "unknown picker")
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(`{`), 0644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestConfigDirHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "ghopen"), dir)
}

func TestNewLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	log, closer, err := NewLogger(dir, "debug", false)
	require.NoError(t, err)

	log.Debug().Str("identity", "o/r").Msg("hello")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"identity":"o/r"`)
	assert.Contains(t, string(content), `"message":"hello"`)
}
