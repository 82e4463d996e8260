package content

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/errors"
)

// DefaultMaxRerolls bounds how many duplicates a single request may skip.
const DefaultMaxRerolls = 5

// PlayedSet is the dedup cache as seen by the acquirer.
type PlayedSet interface {
	Has(id string) (bool, error)
}

// Service is the subset of Client the acquirer needs.
type Service interface {
	NextSong(ctx context.Context, action, preferredLang string) (*WireTrack, error)
	SongByID(ctx context.Context, id string) (*WireTrack, error)
}

// Acquirer fetches tracks and re-rolls repeats.
type Acquirer struct {
	service    Service
	played     PlayedSet
	maxRerolls int
	logger     *zap.Logger
}

// NewAcquirer creates an acquirer. maxRerolls <= 0 selects DefaultMaxRerolls.
func NewAcquirer(service Service, played PlayedSet, maxRerolls int, logger *zap.Logger) *Acquirer {
	if maxRerolls <= 0 {
		maxRerolls = DefaultMaxRerolls
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acquirer{
		service:    service,
		played:     played,
		maxRerolls: maxRerolls,
		logger:     logger,
	}
}

// RequestNext asks the service for a fresh track. A track already in the
// played set is discarded and the request repeated with action=skipped.
// The returned action is the one sent with the request that produced the
// track, so callers score what the service was actually told.
// It does not mark the cache; the caller commits once the track is shown.
func (a *Acquirer) RequestNext(ctx context.Context, action core.Action, preferredLang string) (*core.Track, core.Action, error) {
	if !action.Valid() {
		return nil, action, fmt.Errorf("invalid action %q", action)
	}

	for attempt := 0; attempt <= a.maxRerolls; attempt++ {
		w, err := a.service.NextSong(ctx, action.String(), preferredLang)
		if err != nil {
			return nil, action, errors.Remote(err)
		}
		if err := w.Validate(); err != nil {
			return nil, action, errors.Remote(err)
		}

		seen, err := a.played.Has(w.ID)
		if err != nil {
			return nil, action, err
		}
		if !seen {
			return w.Track(), action, nil
		}

		a.logger.Debug("re-rolling duplicate track",
			zap.String("track_id", w.ID),
			zap.Int("attempt", attempt+1))
		action = core.ActionSkipped
	}

	return nil, action, fmt.Errorf("%w: %w after %d re-rolls", errors.ErrRemoteUnavailable, errors.ErrDuplicateTrack, a.maxRerolls)
}

// RequestByID fetches a known track for replay. It never consults the cache.
func (a *Acquirer) RequestByID(ctx context.Context, id string) (*core.Track, error) {
	w, err := a.service.SongByID(ctx, id)
	if err != nil {
		return nil, errors.Remote(err)
	}
	if err := w.Validate(); err != nil {
		return nil, errors.Remote(err)
	}
	return w.Track(), nil
}
