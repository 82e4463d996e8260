package core

import (
	"context"
	"time"
)

// Device defines the platform playback device the engine drives.
// Volume is linear in [0,1].
type Device interface {
	// Source control
	Load(ctx context.Context, url string) error

	// Playback control
	Play() error
	Pause() error
	Seek(position time.Duration) error

	// Volume control
	Volume() float64
	SetVolume(v float64)

	// State queries
	Position() time.Duration
	Duration() time.Duration
	IsPlaying() bool

	// Lifecycle events
	Events() <-chan DeviceEvent
	Close() error
}

// FastSeeker is implemented by devices that offer a cheaper, frame-aligned seek.
type FastSeeker interface {
	FastSeek(position time.Duration) error
}
