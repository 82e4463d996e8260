package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Service    ServiceConfig    `toml:"service" json:"service" yaml:"service"`
	Store      StoreConfig      `toml:"store" json:"store" yaml:"store"`
	Cache      CacheConfig      `toml:"cache" json:"cache" yaml:"cache"`
	Navigation NavigationConfig `toml:"navigation" json:"navigation" yaml:"navigation"`
	Playback   PlaybackConfig   `toml:"playback" json:"playback" yaml:"playback"`
	TUI        TUIConfig        `toml:"tui" json:"tui" yaml:"tui"`
	Log        LogConfig        `toml:"log" json:"log" yaml:"log"`
}

// ServiceConfig holds content service settings.
type ServiceConfig struct {
	BaseURL    string `toml:"base_url" json:"base_url" yaml:"base_url"`
	Timeout    int    `toml:"timeout" json:"timeout" yaml:"timeout"` // seconds
	MaxRerolls int    `toml:"max_rerolls" json:"max_rerolls" yaml:"max_rerolls"`
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Driver string `toml:"driver" json:"driver" yaml:"driver"`
	Path   string `toml:"path" json:"path" yaml:"path"`
}

// CacheConfig bounds the played-track dedup cache.
type CacheConfig struct {
	MaxEntries int `toml:"max_entries" json:"max_entries" yaml:"max_entries"`
	TTL        int `toml:"ttl" json:"ttl" yaml:"ttl"` // hours, 0 disables expiry
}

// NavigationConfig holds gesture and transition settings.
type NavigationConfig struct {
	DwellThresholdMs  int     `toml:"dwell_threshold_ms" json:"dwell_threshold_ms" yaml:"dwell_threshold_ms"`
	SwipeThreshold    float64 `toml:"swipe_threshold" json:"swipe_threshold" yaml:"swipe_threshold"`
	SettleMs          int     `toml:"settle_ms" json:"settle_ms" yaml:"settle_ms"`
	TransitionTimeout int     `toml:"transition_timeout" json:"transition_timeout" yaml:"transition_timeout"` // seconds
}

// PlaybackConfig holds crossfade and device settings.
type PlaybackConfig struct {
	Audio     string `toml:"audio" json:"audio" yaml:"audio"`
	FadeMs    int    `toml:"fade_ms" json:"fade_ms" yaml:"fade_ms"`
	FadeSteps int    `toml:"fade_steps" json:"fade_steps" yaml:"fade_steps"`
	SettleMs  int    `toml:"settle_ms" json:"settle_ms" yaml:"settle_ms"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" json:"theme" yaml:"theme"`
	RefreshInterval int    `toml:"refresh_interval" json:"refresh_interval" yaml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level" yaml:"level"`
	File  string `toml:"file" json:"file" yaml:"file"`
}

// RequestTimeout returns the per-request HTTP timeout.
func (c ServiceConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// CacheTTL returns the dedup entry lifetime; zero means entries never expire.
func (c CacheConfig) CacheTTL() time.Duration {
	return time.Duration(c.TTL) * time.Hour
}

// DwellThreshold returns the liked/skipped boundary.
func (c NavigationConfig) DwellThreshold() time.Duration {
	return time.Duration(c.DwellThresholdMs) * time.Millisecond
}

// Settle returns how long the bridge holds its guard after a transition.
func (c NavigationConfig) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}

// Timeout returns the upper bound for one transition.
func (c NavigationConfig) Timeout() time.Duration {
	return time.Duration(c.TransitionTimeout) * time.Second
}

// Fade returns the duration of one volume ramp.
func (c PlaybackConfig) Fade() time.Duration {
	return time.Duration(c.FadeMs) * time.Millisecond
}

// Settle returns the delay between the start of a crossfade and the seek.
func (c PlaybackConfig) Settle() time.Duration {
	return time.Duration(c.SettleMs) * time.Millisecond
}
