package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[service]
base_url = "https://songs.example.com"

[navigation]
dwell_threshold_ms = 8000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://songs.example.com", cfg.Service.BaseURL)
	assert.Equal(t, 8000, cfg.Navigation.DwellThresholdMs)
	assert.Equal(t, 350, cfg.Navigation.SettleMs)
	assert.Equal(t, 20, cfg.Playback.FadeSteps)
	assert.Equal(t, "file", cfg.Store.Driver)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WAVEHOOK_SERVICE_BASE_URL", "http://localhost:9999")
	t.Setenv("WAVEHOOK_STORE_DRIVER", "sqlite")
	t.Setenv("WAVEHOOK_SERVICE_TIMEOUT", "3")
	t.Setenv("WAVEHOOK_LOG_LEVEL", "debug")

	cfg := Default()
	applyEnvOverrides(cfg)

	assert.Equal(t, "http://localhost:9999", cfg.Service.BaseURL)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Service.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad scheme", func(c *Config) { c.Service.BaseURL = "ftp://x" }, true},
		{"bad driver", func(c *Config) { c.Store.Driver = "redis" }, true},
		{"negative cache", func(c *Config) { c.Cache.MaxEntries = -1 }, true},
		{"threshold above one", func(c *Config) { c.Navigation.SwipeThreshold = 1.5 }, true},
		{"fade longer than settle", func(c *Config) { c.Playback.FadeMs = 500 }, true},
		{"bad audio", func(c *Config) { c.Playback.Audio = "alsa" }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	file := StoreConfig{Driver: "file"}
	p, err := file.StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/data", "wavehook", "state.json"), p)

	db := StoreConfig{Driver: "sqlite"}
	p, err = db.StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/data", "wavehook", "state.db"), p)

	custom := StoreConfig{Driver: "sqlite", Path: "/var/lib/wh.db"}
	p, err = custom.StorePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/wh.db", p)
}
