package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/errors"
	"github.com/tessro/wavehook/internal/feedback"
	"github.com/tessro/wavehook/internal/gesture"
	"github.com/tessro/wavehook/internal/hook"
)

// Acquirer fetches tracks from the content service.
type Acquirer interface {
	RequestNext(ctx context.Context, action core.Action, preferredLang string) (*core.Track, core.Action, error)
	RequestByID(ctx context.Context, id string) (*core.Track, error)
}

// Preferences scores languages.
type Preferences interface {
	Score(lang string, delta int) (int, error)
	Hint() (string, error)
	Onboarded() (bool, error)
}

// PlayedCache marks freshly acquired tracks.
type PlayedCache interface {
	Mark(id string) error
}

// Navigator is the back/forward history.
type Navigator interface {
	RecordNewTrack(id string) error
	PeekBackward() (string, bool)
	GoBackward() (string, bool, error)
	PeekForward() (string, bool)
	GoForward() (string, bool, error)
	Previous() []string
	Forward() []string
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Device     core.Device
	Acquirer   Acquirer
	Prefs      Preferences
	Cache      PlayedCache
	History    Navigator
	Sequencer  *hook.Sequencer
	Classifier feedback.Classifier
	Clock      hook.Clock
	Logger     *zap.Logger
}

// Controller performs transitions for a single session. Transitions are
// serialized by its Bridge; call them through Bridge() from input handlers.
type Controller struct {
	deps   Deps
	logger *zap.Logger
	bridge *gesture.Bridge

	mu      sync.Mutex
	session Session
}

// NewController creates a controller with a fresh session.
func NewController(deps Deps, gestures gesture.Options) *Controller {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = hook.RealClock{}
	}
	if deps.Classifier.Threshold <= 0 {
		deps.Classifier = feedback.New(0)
	}
	if deps.Sequencer == nil {
		deps.Sequencer = hook.NewSequencer(deps.Device, hook.Options{Clock: deps.Clock, Logger: deps.Logger})
	}

	c := &Controller{
		deps:    deps,
		session: NewSession(),
	}
	c.logger = deps.Logger.With(zap.String("session", c.session.ID))
	if gestures.Logger == nil {
		gestures.Logger = c.logger
	}
	c.bridge = gesture.NewBridge(c, gestures)
	return c
}

// Bridge returns the gesture bridge that guards this controller.
func (c *Controller) Bridge() *gesture.Bridge {
	return c.bridge
}

// Session returns a copy of the session state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Start loads the first track of the session. It is a no-op once a track
// is showing. It holds the bridge guard, so gestures made while the first
// track loads are rejected with ErrBusy.
func (c *Controller) Start(ctx context.Context) error {
	return c.bridge.Do(ctx, func(ctx context.Context) error {
		if c.Session().Current != nil {
			return nil
		}
		return c.acquire(ctx, core.ActionSkip)
	})
}

// Advance moves forward: it replays the forward stack when the user went
// back earlier, otherwise it acquires a new track using dwell feedback.
func (c *Controller) Advance(ctx context.Context) error {
	if id, ok := c.deps.History.PeekForward(); ok {
		return c.redo(ctx, id)
	}

	sess := c.Session()
	if sess.Current == nil {
		return c.acquire(ctx, core.ActionSkip)
	}
	return c.acquire(ctx, c.deps.Classifier.Classify(sess.LoadedAt, c.deps.Clock.Now()))
}

// Retreat returns to the previous track without touching preferences or
// the played cache.
func (c *Controller) Retreat(ctx context.Context) error {
	id, ok := c.deps.History.PeekBackward()
	if !ok {
		return errors.ErrEmptyHistory
	}

	track, err := c.deps.Acquirer.RequestByID(ctx, id)
	if err != nil {
		return err
	}
	if _, _, err := c.deps.History.GoBackward(); err != nil {
		return err
	}

	c.logger.Info("back", zap.String("track_id", id))
	c.show(ctx, track)
	return nil
}

func (c *Controller) redo(ctx context.Context, id string) error {
	track, err := c.deps.Acquirer.RequestByID(ctx, id)
	if err != nil {
		return err
	}
	if _, _, err := c.deps.History.GoForward(); err != nil {
		return err
	}

	c.logger.Info("redo", zap.String("track_id", id))
	c.show(ctx, track)
	return nil
}

// acquire fetches a fresh track and only then commits it. History is
// written first; a failure there leaves every store and the display as they
// were. Once history holds the track it is shown even if the played cache
// or the score write fails, since those only affect future picks.
func (c *Controller) acquire(ctx context.Context, action core.Action) error {
	onboarded, err := c.deps.Prefs.Onboarded()
	if err != nil {
		return err
	}
	if !onboarded {
		return errors.ErrOnboardingRequired
	}

	hint, err := c.deps.Prefs.Hint()
	if err != nil {
		return err
	}

	track, effective, err := c.deps.Acquirer.RequestNext(ctx, action, hint)
	if err != nil {
		return err
	}

	if err := c.deps.History.RecordNewTrack(track.ID); err != nil {
		return err
	}
	if err := c.deps.Cache.Mark(track.ID); err != nil {
		c.logger.Warn("played cache update failed",
			zap.String("track_id", track.ID),
			zap.Error(err))
	}

	c.logger.Info("next",
		zap.String("action", effective.String()),
		zap.String("preferred_lang", hint),
		zap.String("track_id", track.ID))
	c.show(ctx, track)

	// The arriving track carries the feedback, as the service reports it.
	if delta := feedback.Delta(effective); delta != 0 {
		lang := track.LanguageOrUnknown()
		score, err := c.deps.Prefs.Score(lang, delta)
		if err != nil {
			c.logger.Warn("preference update failed",
				zap.String("language", lang),
				zap.Error(err))
			return nil
		}
		c.logger.Debug("preference updated",
			zap.String("language", lang),
			zap.Int("score", score))
	}
	return nil
}

// show makes track current and starts it at its first hook. Device failures
// are recorded on the session but do not fail the transition.
func (c *Controller) show(ctx context.Context, track *core.Track) {
	loadErr := c.deps.Device.Load(ctx, track.AudioURL())
	if loadErr != nil {
		c.logger.Warn("device load failed",
			zap.String("track_id", track.ID),
			zap.Error(loadErr))
	}

	c.mu.Lock()
	c.session.Current = track
	c.session.LoadedAt = c.deps.Clock.Now()
	c.session.LoadFailed = loadErr != nil
	c.mu.Unlock()

	if loadErr == nil {
		c.deps.Sequencer.Load(track.Hooks)
	}
}

// NextHook crossfades to the next hook of the current track.
func (c *Controller) NextHook() (int, error) {
	if c.Session().Current == nil {
		return 0, fmt.Errorf("no track loaded")
	}
	return c.deps.Sequencer.NextHook(), nil
}

// TogglePlay fades out and pauses when playing, else resumes with a fade in.
func (c *Controller) TogglePlay() error {
	sess := c.Session()
	if sess.Current == nil || sess.LoadFailed {
		return errors.ErrPlaybackRejected
	}
	if c.deps.Device.IsPlaying() {
		c.deps.Sequencer.FadeOut()
		return nil
	}
	return c.deps.Sequencer.FadeIn()
}

// Snapshot returns the display state.
func (c *Controller) Snapshot() core.Snapshot {
	sess := c.Session()
	snap := core.Snapshot{
		SessionID:  sess.ID,
		Track:      sess.Current,
		LoadedAt:   sess.LoadedAt,
		Previous:   c.deps.History.Previous(),
		Forward:    c.deps.History.Forward(),
		Transiting: c.bridge.Busy(),
	}
	if sess.Current != nil {
		snap.HookIndex = c.deps.Sequencer.Index()
		snap.Rejected = sess.LoadFailed || c.deps.Sequencer.Rejected()
		snap.IsPlaying = c.deps.Device.IsPlaying()
		snap.Progress = c.deps.Device.Position()
		snap.Duration = c.deps.Device.Duration()
		snap.Volume = c.deps.Device.Volume()
	}
	return snap
}

// Run consumes device events until ctx is done or the device closes. A track
// that plays to its end advances to the next one.
func (c *Controller) Run(ctx context.Context) error {
	events := c.deps.Device.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Type != core.EventEnded {
				continue
			}
			c.logger.Debug("track ended")
			if err := c.bridge.Forward(ctx); err != nil && !errors.IsSoft(err) {
				c.logger.Warn("auto-advance failed", zap.Error(err))
			}
		}
	}
}

// Close stops fades and releases the device.
func (c *Controller) Close() error {
	c.deps.Sequencer.Stop()
	return c.deps.Device.Close()
}

// LoadedFor returns how long the current track has been showing.
func (c *Controller) LoadedFor() time.Duration {
	sess := c.Session()
	if sess.LoadedAt.IsZero() {
		return 0
	}
	return c.deps.Clock.Now().Sub(sess.LoadedAt)
}
