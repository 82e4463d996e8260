package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Service.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("service: %w", err))
	}
	if err := c.Store.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := c.Cache.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}
	if err := c.Navigation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("navigation: %w", err))
	}
	if err := c.Playback.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("playback: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks ServiceConfig for errors.
func (c *ServiceConfig) Validate() error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid base_url: scheme must be http or https")
		}
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	if c.MaxRerolls < 0 {
		return errors.New("max_rerolls must be non-negative")
	}
	return nil
}

// Validate checks StoreConfig for errors.
func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case "", "file", "sqlite", "memory":
		// valid
	default:
		return fmt.Errorf("invalid driver: %s (must be file, sqlite, or memory)", c.Driver)
	}
	return nil
}

// Validate checks CacheConfig for errors.
func (c *CacheConfig) Validate() error {
	if c.MaxEntries < 0 {
		return errors.New("max_entries must be non-negative")
	}
	if c.TTL < 0 {
		return errors.New("ttl must be non-negative")
	}
	return nil
}

// Validate checks NavigationConfig for errors.
func (c *NavigationConfig) Validate() error {
	if c.DwellThresholdMs < 0 {
		return errors.New("dwell_threshold_ms must be non-negative")
	}
	if c.SwipeThreshold < 0 || c.SwipeThreshold > 1 {
		return errors.New("swipe_threshold must be between 0 and 1")
	}
	if c.SettleMs < 0 {
		return errors.New("settle_ms must be non-negative")
	}
	if c.TransitionTimeout < 0 {
		return errors.New("transition_timeout must be non-negative")
	}
	return nil
}

// Validate checks PlaybackConfig for errors.
func (c *PlaybackConfig) Validate() error {
	switch c.Audio {
	case "", "beep", "none":
		// valid
	default:
		return fmt.Errorf("invalid audio: %s (must be beep or none)", c.Audio)
	}
	if c.FadeMs < 0 || c.SettleMs < 0 {
		return errors.New("fade_ms and settle_ms must be non-negative")
	}
	if c.FadeSteps < 0 {
		return errors.New("fade_steps must be non-negative")
	}
	if c.SettleMs != 0 && c.FadeMs > c.SettleMs {
		return fmt.Errorf("settle_ms (%d) must not be shorter than fade_ms (%d)", c.SettleMs, c.FadeMs)
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
