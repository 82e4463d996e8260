package core

import "time"

// Snapshot is a point-in-time view of a navigation session for display.
type Snapshot struct {
	SessionID  string        `json:"session_id"`
	Track      *Track        `json:"track"`
	HookIndex  int           `json:"hook_index"`
	IsPlaying  bool          `json:"is_playing"`
	Progress   time.Duration `json:"progress"`
	Duration   time.Duration `json:"duration"`
	Volume     float64       `json:"volume"`
	LoadedAt   time.Time     `json:"loaded_at"`
	Previous   []string      `json:"previous"`
	Forward    []string      `json:"forward"`
	Rejected   bool          `json:"playback_rejected"`
	Transiting bool          `json:"transiting"`
}

// HasTrack returns true if a track is loaded.
func (s *Snapshot) HasTrack() bool {
	return s != nil && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s *Snapshot) ProgressPercent() float64 {
	if s == nil || s.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Duration) * 100
}

// CurrentHook returns the hook timestamp the session last seeked to.
func (s *Snapshot) CurrentHook() string {
	if s == nil || s.Track == nil || len(s.Track.Hooks) == 0 {
		return ""
	}
	if s.HookIndex < 0 || s.HookIndex >= len(s.Track.Hooks) {
		return ""
	}
	return s.Track.Hooks[s.HookIndex]
}
