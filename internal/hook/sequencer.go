package hook

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/errors"
)

// State is the crossfade phase.
type State int

const (
	Idle State = iota
	FadingOut
	Seeking
	FadingIn
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FadingOut:
		return "fading-out"
	case Seeking:
		return "seeking"
	case FadingIn:
		return "fading-in"
	default:
		return "unknown"
	}
}

const (
	DefaultFadeDuration = 150 * time.Millisecond
	DefaultFadeSteps    = 20
	DefaultSettleDelay  = 180 * time.Millisecond
)

// Options tunes the crossfade.
type Options struct {
	FadeDuration time.Duration
	FadeSteps    int
	// SettleDelay is measured from the start of the crossfade to the seek.
	SettleDelay time.Duration
	Clock       Clock
	Logger      *zap.Logger
}

func (o *Options) applyDefaults() {
	if o.FadeDuration < 0 {
		o.FadeDuration = 0
	}
	if o.FadeSteps <= 0 {
		o.FadeSteps = DefaultFadeSteps
	}
	if o.SettleDelay < o.FadeDuration {
		o.SettleDelay = o.FadeDuration
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// DefaultOptions returns the standard crossfade timing.
func DefaultOptions() Options {
	return Options{
		FadeDuration: DefaultFadeDuration,
		FadeSteps:    DefaultFadeSteps,
		SettleDelay:  DefaultSettleDelay,
	}
}

// Sequencer drives a device through fade-out, seek, resume and fade-in.
// A new request cancels any crossfade in flight; the last one wins.
type Sequencer struct {
	dev    core.Device
	sched  *Scheduler
	opts   Options
	logger *zap.Logger

	mu         sync.Mutex
	epoch      uint64
	state      State
	hooks      []string
	index      int
	rejected   bool
	wasPlaying bool
}

// NewSequencer creates a sequencer for dev.
func NewSequencer(dev core.Device, opts Options) *Sequencer {
	opts.applyDefaults()
	return &Sequencer{
		dev:    dev,
		sched:  NewScheduler(opts.Clock),
		opts:   opts,
		logger: opts.Logger,
		hooks:  append([]string(nil), DefaultHooks...),
	}
}

// Load installs the hooks of a newly loaded track and crossfades to the first.
func (s *Sequencer) Load(hooks []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = Normalize(hooks)
	s.index = 0
	s.crossfadeLocked()
}

// NextHook advances to the next hook, wrapping around, and crossfades to it.
// It returns the new index.
func (s *Sequencer) NextHook() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.index = (s.index + 1) % len(s.hooks)
	s.crossfadeLocked()
	return s.index
}

// FadeIn starts playback from silence and ramps the volume up.
func (s *Sequencer) FadeIn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.dev.SetVolume(0)
	if err := s.dev.Play(); err != nil {
		s.rejected = true
		s.state = Idle
		s.logger.Warn("play rejected", zap.Error(err))
		return fmt.Errorf("%w: %w", errors.ErrPlaybackRejected, err)
	}
	s.rejected = false
	s.state = FadingIn
	s.rampLocked(0, 1, func() { s.state = Idle })
	return nil
}

// FadeOut ramps the volume down and pauses.
func (s *Sequencer) FadeOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.state = FadingOut
	s.rampLocked(s.dev.Volume(), 0, func() {
		if err := s.dev.Pause(); err != nil {
			s.logger.Warn("pause failed", zap.Error(err))
		}
		s.state = Idle
	})
}

// Stop cancels any fade in flight.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.state = Idle
}

// State returns the current phase.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index returns the current hook index.
func (s *Sequencer) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Hooks returns the installed hook list.
func (s *Sequencer) Hooks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.hooks...)
}

// Rejected reports whether the last resume attempt was refused by the device.
func (s *Sequencer) Rejected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

// cancelLocked drops the pending step. Steps already past the scheduler's
// own check are discarded by the epoch test.
func (s *Sequencer) cancelLocked() {
	s.epoch++
	s.sched.Stop()
}

func (s *Sequencer) crossfadeLocked() {
	s.cancelLocked()

	target := ParseTimestamp(s.hooks[s.index])
	s.wasPlaying = s.dev.IsPlaying()
	s.state = FadingOut
	s.logger.Debug("crossfade",
		zap.Int("hook", s.index),
		zap.Duration("target", target),
		zap.Bool("was_playing", s.wasPlaying))

	s.rampLocked(s.dev.Volume(), 0, func() {
		s.afterLocked(s.opts.SettleDelay-s.opts.FadeDuration, func() {
			s.seekLocked(target)
		})
	})
}

func (s *Sequencer) seekLocked(target time.Duration) {
	s.state = Seeking

	var err error
	if fs, ok := s.dev.(core.FastSeeker); ok {
		err = fs.FastSeek(target)
	} else {
		err = s.dev.Seek(target)
	}
	if err != nil {
		s.logger.Warn("seek failed", zap.Duration("target", target), zap.Error(err))
	}

	if err := s.dev.Play(); err != nil {
		s.rejected = true
		s.logger.Warn("resume rejected", zap.Error(err))
	} else {
		s.rejected = false
	}

	s.state = FadingIn
	s.rampLocked(0, 1, func() { s.state = Idle })
}

// rampLocked moves the volume linearly from "from" to "to" over the fade
// duration and then runs done. Callbacks run with s.mu held.
func (s *Sequencer) rampLocked(from, to float64, done func()) {
	steps := s.opts.FadeSteps
	interval := s.opts.FadeDuration / time.Duration(steps)
	if interval <= 0 {
		s.dev.SetVolume(to)
		done()
		return
	}

	epoch := s.epoch
	var step func(i int)
	step = func(i int) {
		s.sched.Schedule(interval, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if epoch != s.epoch {
				return
			}

			v := from + (to-from)*float64(i)/float64(steps)
			if i == steps {
				v = to
			}
			s.dev.SetVolume(v)
			if i == steps {
				done()
				return
			}
			step(i + 1)
		})
	}
	step(1)
}

// afterLocked runs fn after d on the scheduler, or immediately when d <= 0.
func (s *Sequencer) afterLocked(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	epoch := s.epoch
	s.sched.Schedule(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch {
			return
		}
		fn()
	})
}
