// Package feedback turns dwell time into implicit like/skip feedback.
package feedback

import (
	"time"

	"github.com/tessro/wavehook/internal/core"
)

// DwellThreshold is the default boundary between a skip and a like.
const DwellThreshold = 12 * time.Second

// Classifier maps dwell time to an action.
type Classifier struct {
	Threshold time.Duration
}

// New returns a classifier; a non-positive threshold selects DwellThreshold.
func New(threshold time.Duration) Classifier {
	if threshold <= 0 {
		threshold = DwellThreshold
	}
	return Classifier{Threshold: threshold}
}

// Classify returns liked when strictly more than the threshold has elapsed
// between loadedAt and now, skipped otherwise.
func (c Classifier) Classify(loadedAt, now time.Time) core.Action {
	if now.Sub(loadedAt) > c.Threshold {
		return core.ActionLiked
	}
	return core.ActionSkipped
}

// Classify uses the default threshold.
func Classify(loadedAt, now time.Time) core.Action {
	return New(0).Classify(loadedAt, now)
}

// Delta returns the preference score change for action.
func Delta(action core.Action) int {
	switch action {
	case core.ActionLiked:
		return 1
	case core.ActionSkipped:
		return -1
	default:
		return 0
	}
}
