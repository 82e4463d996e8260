// Package tail turns successive player snapshots into a stream of
// human-readable playback events.
package tail

import (
	"context"
	"time"

	"github.com/tessro/wavehook/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventHookChange
	EventPause
	EventResume
	EventVolumeChange
)

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  *core.Snapshot
	Current   *core.Snapshot
}

// Source is anything that can report the current session snapshot.
type Source interface {
	Snapshot() core.Snapshot
}

// Watcher polls a source for state changes and emits events.
type Watcher struct {
	source   Source
	interval time.Duration
	events   chan Event
	done     chan struct{}
	now      func() time.Time
}

// NewWatcher creates a new state watcher.
func NewWatcher(source Source, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		source:   source,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for state changes. It closes the events channel on return.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	var prev *core.Snapshot

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			snap := w.source.Snapshot()
			curr := &snap

			for _, e := range diffSnapshots(prev, curr, w.now()) {
				select {
				case w.events <- e:
				default:
					// Drop event if channel is full
				}
			}

			prev = curr
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// diffSnapshots compares two snapshots and returns detected events.
func diffSnapshots(prev, curr *core.Snapshot, now time.Time) []Event {
	if curr == nil {
		return nil
	}

	var events []Event
	add := func(t EventType) {
		events = append(events, Event{Type: t, Timestamp: now, Previous: prev, Current: curr})
	}

	// First poll - no previous state
	if prev == nil {
		if curr.HasTrack() {
			add(EventTrackChange)
		}
		return events
	}

	if trackChanged(prev, curr) {
		switch {
		case prev.HasTrack() && wasCompleted(prev):
			add(EventTrackComplete)
		case prev.HasTrack():
			add(EventTrackSkip)
		}
		if curr.HasTrack() {
			add(EventTrackChange)
		}
		return events
	}

	if curr.HasTrack() && prev.HookIndex != curr.HookIndex {
		add(EventHookChange)
	}

	if prev.IsPlaying && !curr.IsPlaying {
		add(EventPause)
	} else if !prev.IsPlaying && curr.IsPlaying {
		add(EventResume)
	}

	// Fades move the volume continuously; only settled levels are reported.
	if !fading(prev) && !fading(curr) && volumePercent(prev.Volume) != volumePercent(curr.Volume) {
		add(EventVolumeChange)
	}

	return events
}

func trackChanged(prev, curr *core.Snapshot) bool {
	if !prev.HasTrack() && !curr.HasTrack() {
		return false
	}
	if !prev.HasTrack() || !curr.HasTrack() {
		return true
	}
	return prev.Track.ID != curr.Track.ID
}

// wasCompleted returns true if the track likely played to its end.
func wasCompleted(s *core.Snapshot) bool {
	if s.Duration == 0 {
		return false
	}
	return float64(s.Progress) >= float64(s.Duration)*0.95
}

func fading(s *core.Snapshot) bool {
	p := volumePercent(s.Volume)
	return p != 0 && p != 100
}

func volumePercent(v float64) int {
	return int(v*100 + 0.5)
}
