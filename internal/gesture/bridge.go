// Package gesture turns continuous swipe and scroll input into discrete
// forward/backward transitions, one at a time.
package gesture

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/errors"
)

// Direction is the outcome of a gesture.
type Direction int

const (
	None Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "none"
	}
}

const (
	DefaultThreshold = 0.25
	DefaultSettle    = 350 * time.Millisecond
	DefaultTimeout   = 15 * time.Second

	// wheelFactor damps raw wheel deltas into card offset.
	wheelFactor = 0.5
)

// Target performs the actual transitions.
type Target interface {
	Advance(ctx context.Context) error
	Retreat(ctx context.Context) error
}

// Options tunes a Bridge.
type Options struct {
	// Threshold is the fraction of the viewport a gesture must travel.
	Threshold float64
	// Settle holds the guard after a successful transition.
	Settle time.Duration
	// Timeout bounds a single transition.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Bridge owns the re-entrancy guard and the running gesture offset.
type Bridge struct {
	target Target
	opts   Options
	logger *zap.Logger

	busy atomic.Bool

	mu       sync.Mutex
	offset   float64
	viewport float64
	startY   float64
	touching bool
}

// NewBridge creates a bridge driving target.
func NewBridge(target Target, opts Options) *Bridge {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Bridge{target: target, opts: opts, logger: opts.Logger}
}

// SetViewport sets the extent the threshold is measured against.
func (b *Bridge) SetViewport(extent float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewport = extent
}

// Offset returns the current visual offset of the card.
func (b *Bridge) Offset() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.offset
}

// Busy reports whether a transition is in flight.
func (b *Bridge) Busy() bool {
	return b.busy.Load()
}

// Wheel accumulates a scroll delta. Positive deltas scroll down, pulling the
// card up towards the next track. Input is ignored while busy.
func (b *Bridge) Wheel(deltaY float64) Direction {
	if b.Busy() {
		return None
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.offset -= deltaY * wheelFactor
	return b.crossedLocked()
}

// Begin starts a touch drag at y.
func (b *Bridge) Begin(y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.startY = y
	b.touching = true
}

// Move updates the drag offset. Thresholds are evaluated on End.
func (b *Bridge) Move(y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.touching {
		return
	}
	b.offset = y - b.startY
}

// End releases a touch drag. Without a threshold crossing the card snaps back.
func (b *Bridge) End() Direction {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.touching = false
	if b.busy.Load() {
		b.offset = 0
		return None
	}
	d := b.crossedLocked()
	b.offset = 0
	return d
}

func (b *Bridge) crossedLocked() Direction {
	limit := b.viewport * b.opts.Threshold
	if limit <= 0 {
		return None
	}
	switch {
	case b.offset < -limit:
		b.offset = 0
		return Forward
	case b.offset > limit:
		b.offset = 0
		return Backward
	}
	return None
}

// Navigate runs the transition for d.
func (b *Bridge) Navigate(ctx context.Context, d Direction) error {
	switch d {
	case Forward:
		return b.Forward(ctx)
	case Backward:
		return b.Backward(ctx)
	default:
		return nil
	}
}

// Forward advances to the next track.
func (b *Bridge) Forward(ctx context.Context) error {
	return b.run(ctx, Forward, b.target.Advance)
}

// Backward returns to the previous track.
func (b *Bridge) Backward(ctx context.Context) error {
	return b.run(ctx, Backward, b.target.Retreat)
}

// Do runs fn under the same guard as gesture transitions. Non-gesture
// transitions such as loading the first track go through here.
func (b *Bridge) Do(ctx context.Context, fn func(context.Context) error) error {
	return b.run(ctx, None, fn)
}

func (b *Bridge) run(ctx context.Context, d Direction, fn func(context.Context) error) error {
	if !b.busy.CompareAndSwap(false, true) {
		b.logger.Debug("transition ignored", zap.Stringer("direction", d))
		return errors.ErrBusy
	}
	defer b.busy.Store(false)

	tctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	start := time.Now()
	err := fn(tctx)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = errors.Remote(err)
		}
		b.logger.Debug("transition failed",
			zap.Stringer("direction", d),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return err
	}

	b.logger.Debug("transition complete",
		zap.Stringer("direction", d),
		zap.Duration("elapsed", time.Since(start)))
	b.settle(ctx)
	return nil
}

func (b *Bridge) settle(ctx context.Context) {
	if b.opts.Settle <= 0 {
		return
	}
	t := time.NewTimer(b.opts.Settle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
