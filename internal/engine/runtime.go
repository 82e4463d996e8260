package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/config"
	"github.com/tessro/wavehook/internal/content"
	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/dedup"
	"github.com/tessro/wavehook/internal/feedback"
	"github.com/tessro/wavehook/internal/gesture"
	"github.com/tessro/wavehook/internal/history"
	"github.com/tessro/wavehook/internal/hook"
	"github.com/tessro/wavehook/internal/kv"
	"github.com/tessro/wavehook/internal/prefs"
)

// Runtime holds the persistent stores and the service client built from
// configuration. Commands that do not play audio use it directly.
type Runtime struct {
	Config   *config.Config
	Store    kv.Store
	Prefs    *prefs.Store
	Cache    *dedup.Cache
	Client   *content.Client
	Acquirer *content.Acquirer
	Logger   *zap.Logger
}

// OpenRuntime opens the KV store and builds the components on top of it.
func OpenRuntime(cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := kv.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	cache := dedup.New(store, dedup.Options{
		MaxEntries: cfg.Cache.MaxEntries,
		TTL:        cfg.Cache.CacheTTL(),
	})
	client := content.NewClient(cfg.Service.BaseURL, cfg.Service.RequestTimeout(),
		content.WithLogger(logger.Named("content")))

	return &Runtime{
		Config:   cfg,
		Store:    store,
		Prefs:    prefs.New(store),
		Cache:    cache,
		Client:   client,
		Acquirer: content.NewAcquirer(client, cache, cfg.Service.MaxRerolls, logger.Named("acquire")),
		Logger:   logger,
	}, nil
}

// NewController starts a session on dev. Opening the session resets the
// back/forward history.
func (r *Runtime) NewController(dev core.Device, clock hook.Clock) (*Controller, error) {
	nav, err := history.Open(r.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if clock == nil {
		clock = hook.RealClock{}
	}

	pb := r.Config.Playback
	seq := hook.NewSequencer(dev, hook.Options{
		FadeDuration: pb.Fade(),
		FadeSteps:    pb.FadeSteps,
		SettleDelay:  pb.Settle(),
		Clock:        clock,
		Logger:       r.Logger.Named("hook"),
	})

	nc := r.Config.Navigation
	return NewController(Deps{
		Device:     dev,
		Acquirer:   r.Acquirer,
		Prefs:      r.Prefs,
		Cache:      r.Cache,
		History:    nav,
		Sequencer:  seq,
		Classifier: feedback.New(nc.DwellThreshold()),
		Clock:      clock,
		Logger:     r.Logger.Named("engine"),
	}, gesture.Options{
		Threshold: nc.SwipeThreshold,
		Settle:    nc.Settle(),
		Timeout:   nc.Timeout(),
	}), nil
}

// Close releases the store.
func (r *Runtime) Close() error {
	return r.Store.Close()
}
