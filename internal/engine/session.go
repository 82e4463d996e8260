// Package engine owns a navigation session and wires the player components
// together: acquisition, history, preferences, hooks and the device.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/tessro/wavehook/internal/core"
)

// Session is the transient state of one player run.
type Session struct {
	ID       string
	Current  *core.Track
	LoadedAt time.Time
	// LoadFailed records that the device could not load the current track.
	LoadFailed bool
}

// NewSession creates an empty session with a fresh id.
func NewSession() Session {
	return Session{ID: uuid.NewString()}
}
