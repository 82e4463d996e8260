package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tessro/wavehook/internal/core"
)

func TestClassify(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dwell time.Duration
		want  core.Action
	}{
		{"instant", 0, core.ActionSkipped},
		{"short", 3 * time.Second, core.ActionSkipped},
		{"exactly threshold", 12 * time.Second, core.ActionSkipped},
		{"just over", 12*time.Second + time.Millisecond, core.ActionLiked},
		{"long", 5 * time.Minute, core.ActionLiked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(start, start.Add(tt.dwell)))
		})
	}
}

func TestCustomThreshold(t *testing.T) {
	start := time.Now()
	c := New(2 * time.Second)
	assert.Equal(t, core.ActionLiked, c.Classify(start, start.Add(3*time.Second)))
	assert.Equal(t, core.ActionSkipped, c.Classify(start, start.Add(2*time.Second)))
	assert.Equal(t, DwellThreshold, New(-1).Threshold)
}

func TestDelta(t *testing.T) {
	assert.Equal(t, 1, Delta(core.ActionLiked))
	assert.Equal(t, -1, Delta(core.ActionSkipped))
	assert.Equal(t, 0, Delta(core.ActionSkip))
	assert.Equal(t, 0, Delta(core.Action("bogus")))
}
