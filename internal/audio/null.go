package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tessro/wavehook/internal/core"
)

// NullDevice is a silent device. It keeps position and volume state so the
// player UI behaves normally without an audio backend.
type NullDevice struct {
	mu       sync.Mutex
	loaded   []string
	seeks    []time.Duration
	position time.Duration
	duration time.Duration
	volume   float64
	playing  bool
	playErr  error
	loadErr  error
	events   chan core.DeviceEvent
	closed   bool
}

// NewNullDevice creates a silent device.
func NewNullDevice() *NullDevice {
	return &NullDevice{
		volume:   1,
		duration: 3 * time.Minute,
		events:   make(chan core.DeviceEvent, 16),
	}
}

// FailPlay makes subsequent Play calls fail with err (nil restores).
func (d *NullDevice) FailPlay(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playErr = err
}

// FailLoad makes subsequent Load calls fail with err (nil restores).
func (d *NullDevice) FailLoad(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadErr = err
}

func (d *NullDevice) Load(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loadErr != nil {
		return d.loadErr
	}
	d.loaded = append(d.loaded, url)
	d.position = 0
	d.emitLocked(core.EventLoadedMetadata)
	return nil
}

func (d *NullDevice) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.playErr != nil {
		return d.playErr
	}
	if len(d.loaded) == 0 {
		return fmt.Errorf("no source loaded")
	}
	d.playing = true
	d.emitLocked(core.EventPlay)
	return nil
}

func (d *NullDevice) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.playing = false
	d.emitLocked(core.EventPause)
	return nil
}

func (d *NullDevice) Seek(p time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p < 0 {
		p = 0
	}
	if p > d.duration {
		p = d.duration
	}
	d.seeks = append(d.seeks, p)
	d.position = p
	return nil
}

func (d *NullDevice) Volume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.volume
}

func (d *NullDevice) SetVolume(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = clampVolume(v)
}

func (d *NullDevice) Position() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position
}

func (d *NullDevice) Duration() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duration
}

func (d *NullDevice) IsPlaying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *NullDevice) Events() <-chan core.DeviceEvent {
	return d.events
}

// Finish simulates the current source playing to its end.
func (d *NullDevice) Finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.position = d.duration
	d.playing = false
	d.emitLocked(core.EventEnded)
}

// Loaded returns every URL passed to Load, in order.
func (d *NullDevice) Loaded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.loaded...)
}

// Seeks returns every seek target, in order.
func (d *NullDevice) Seeks() []time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]time.Duration(nil), d.seeks...)
}

func (d *NullDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		d.playing = false
		close(d.events)
	}
	return nil
}

// emitLocked sends without blocking; slow consumers miss events.
func (d *NullDevice) emitLocked(t core.EventType) {
	if d.closed {
		return
	}
	select {
	case d.events <- core.DeviceEvent{Type: t, Timestamp: time.Now(), Position: d.position, Duration: d.duration}:
	default:
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
