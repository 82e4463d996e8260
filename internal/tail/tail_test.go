package tail

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/wavehook/internal/core"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func snap(id string, playing bool) *core.Snapshot {
	s := &core.Snapshot{IsPlaying: playing, Volume: 1, Duration: 3 * time.Minute}
	if id != "" {
		s.Track = &core.Track{
			ID:       id,
			Title:    "Song " + id,
			Artists:  []string{"Artist"},
			Language: "hindi",
			Hooks:    []string{"00:10", "01:20"},
		}
	}
	return s
}

func types(events []Event) []EventType {
	var out []EventType
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestDiffSnapshots(t *testing.T) {
	completed := snap("a", true)
	completed.Progress = 179 * time.Second

	hooked := snap("a", true)
	hooked.HookIndex = 1

	paused := snap("a", false)

	quiet := snap("a", true)
	quiet.Volume = 0.5
	settled := snap("a", false)
	settled.Volume = 0

	tests := []struct {
		name       string
		prev, curr *core.Snapshot
		want       []EventType
	}{
		{"first poll with track", nil, snap("a", true), []EventType{EventTrackChange}},
		{"first poll empty", nil, snap("", false), nil},
		{"no change", snap("a", true), snap("a", true), nil},
		{"skip", snap("a", true), snap("b", true), []EventType{EventTrackSkip, EventTrackChange}},
		{"complete", completed, snap("b", true), []EventType{EventTrackComplete, EventTrackChange}},
		{"hook", snap("a", true), hooked, []EventType{EventHookChange}},
		{"pause", snap("a", true), paused, []EventType{EventPause}},
		{"resume", paused, snap("a", true), []EventType{EventResume}},
		{"mid fade is quiet", snap("a", true), quiet, nil},
		{"settled volume", snap("a", true), settled, []EventType{EventPause, EventVolumeChange}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types(diffSnapshots(tt.prev, tt.curr, t0)))
		})
	}
}

func newFormatter(t *testing.T, opts FormatOptions) *Formatter {
	t.Helper()
	f, err := NewFormatter(opts)
	require.NoError(t, err)
	return f
}

func TestFormatter(t *testing.T) {
	hook := snap("a", true)
	hook.HookIndex = 1
	prev := snap("a", true)

	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"track change", Event{Type: EventTrackChange, Current: snap("a", true)}, "Now playing: Artist - Song a [hindi]"},
		{"track change without track", Event{Type: EventTrackChange, Current: &core.Snapshot{}}, "Track changed"},
		{"skip", Event{Type: EventTrackSkip, Previous: prev}, "Left: Artist - Song a"},
		{"complete", Event{Type: EventTrackComplete, Previous: prev}, "Finished: Artist - Song a"},
		{"skip without previous", Event{Type: EventTrackSkip}, "Track skipped"},
		{"hook", Event{Type: EventHookChange, Current: hook}, "Hook 2/2 at 01:20"},
		{"pause", Event{Type: EventPause}, "Paused"},
		{"volume", Event{Type: EventVolumeChange, Current: &core.Snapshot{Volume: 0.5}}, "Volume: 50%"},
		{"unknown", Event{Type: EventType(99)}, "Unknown event"},
	}

	f := newFormatter(t, FormatOptions{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.event))
		})
	}
}

func TestFormatterDecorations(t *testing.T) {
	e := Event{Type: EventTrackChange, Timestamp: t0, Current: snap("a", true)}

	f := newFormatter(t, FormatOptions{Timestamp: true})
	assert.True(t, strings.HasPrefix(f.Format(e), "12:00:00 Now playing"))

	f = newFormatter(t, FormatOptions{Emoji: true})
	assert.Equal(t, "🎵 Now playing: Artist - Song a [hindi]", f.Format(e))

	assert.Equal(t, "track_skip", EventTrackSkip.String())
	assert.Equal(t, "unknown", EventType(99).String())
}

func TestFormatterTemplate(t *testing.T) {
	e := Event{Type: EventTrackChange, Timestamp: t0, Current: snap("a", true)}

	f := newFormatter(t, FormatOptions{Template: "{{.Type}} {{.ID}} {{.Language}} {{.Hook}} {{.Volume}}"})
	assert.Equal(t, "track_change a hindi 00:10 100", f.Format(e))

	f = newFormatter(t, FormatOptions{Template: "{{.Emoji}} {{.Text}}"})
	assert.Equal(t, "⏸️ Paused", f.Format(Event{Type: EventPause}))

	// Fields of an empty snapshot render blank
	f = newFormatter(t, FormatOptions{Template: "[{{.ID}}]"})
	assert.Equal(t, "[]", f.Format(Event{Type: EventPause}))
}

func TestFormatterTemplateErrors(t *testing.T) {
	_, err := NewFormatter(FormatOptions{Template: "{{.Nope"})
	assert.ErrorContains(t, err, "invalid format template")

	// Execution failures fall back to the default layout
	e := Event{Type: EventTrackChange, Current: snap("a", true)}
	f := newFormatter(t, FormatOptions{Template: "{{.Nope}}"})
	assert.Equal(t, "Now playing: Artist - Song a [hindi]", f.Format(e))
}

type stepSource struct {
	mu    sync.Mutex
	snaps []core.Snapshot
}

func (s *stepSource) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snaps[0]
	if len(s.snaps) > 1 {
		s.snaps = s.snaps[1:]
	}
	return cur
}

func TestWatcher(t *testing.T) {
	src := &stepSource{snaps: []core.Snapshot{*snap("a", true), *snap("b", true)}}
	w := NewWatcher(src, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start(ctx) }()

	var got []EventType
	for e := range w.Events() {
		got = append(got, e.Type)
		if len(got) == 3 {
			w.Stop()
		}
	}

	require.NoError(t, <-errCh)
	assert.Equal(t, []EventType{EventTrackChange, EventTrackSkip, EventTrackChange}, got)
}
