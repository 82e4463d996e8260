package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:    "http://127.0.0.1:5000",
			Timeout:    10,
			MaxRerolls: 5,
		},
		Store: StoreConfig{
			Driver: "file",
		},
		Cache: CacheConfig{
			MaxEntries: 5000,
			TTL:        24,
		},
		Navigation: NavigationConfig{
			DwellThresholdMs:  12000,
			SwipeThreshold:    0.25,
			SettleMs:          350,
			TransitionTimeout: 15,
		},
		Playback: PlaybackConfig{
			Audio:     "beep",
			FadeMs:    150,
			FadeSteps: 20,
			SettleMs:  180,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 250,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Service
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = d.Service.BaseURL
	}
	if c.Service.Timeout == 0 {
		c.Service.Timeout = d.Service.Timeout
	}
	if c.Service.MaxRerolls == 0 {
		c.Service.MaxRerolls = d.Service.MaxRerolls
	}

	// Store
	if c.Store.Driver == "" {
		c.Store.Driver = d.Store.Driver
	}

	// Cache
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = d.Cache.MaxEntries
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = d.Cache.TTL
	}

	// Navigation
	if c.Navigation.DwellThresholdMs == 0 {
		c.Navigation.DwellThresholdMs = d.Navigation.DwellThresholdMs
	}
	if c.Navigation.SwipeThreshold == 0 {
		c.Navigation.SwipeThreshold = d.Navigation.SwipeThreshold
	}
	if c.Navigation.SettleMs == 0 {
		c.Navigation.SettleMs = d.Navigation.SettleMs
	}
	if c.Navigation.TransitionTimeout == 0 {
		c.Navigation.TransitionTimeout = d.Navigation.TransitionTimeout
	}

	// Playback
	if c.Playback.Audio == "" {
		c.Playback.Audio = d.Playback.Audio
	}
	if c.Playback.FadeMs == 0 {
		c.Playback.FadeMs = d.Playback.FadeMs
	}
	if c.Playback.FadeSteps == 0 {
		c.Playback.FadeSteps = d.Playback.FadeSteps
	}
	if c.Playback.SettleMs == 0 {
		c.Playback.SettleMs = d.Playback.SettleMs
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
