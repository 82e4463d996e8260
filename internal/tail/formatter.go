package tail

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/tessro/wavehook/internal/core"
)

// kind describes how one event type renders. text reports false when the
// snapshot it reads is empty, and fallback is printed instead.
type kind struct {
	name     string
	emoji    string
	text     func(Event) (string, bool)
	fallback string
}

var kinds = map[EventType]kind{
	EventTrackChange:   {"track_change", "🎵", nowPlaying, "Track changed"},
	EventTrackComplete: {"track_complete", "✅", departed("Finished: "), "Track completed"},
	EventTrackSkip:     {"track_skip", "⏭️", departed("Left: "), "Track skipped"},
	EventHookChange:    {"hook_change", "🎣", hookLine, "Hook changed"},
	EventPause:         {"pause", "⏸️", nil, "Paused"},
	EventResume:        {"resume", "▶️", nil, "Resumed"},
	EventVolumeChange:  {"volume_change", "🔊", volumeLine, "Volume changed"},
}

var unknownKind = kind{name: "unknown", emoji: "❓", fallback: "Unknown event"}

func kindOf(t EventType) kind {
	if k, ok := kinds[t]; ok {
		return k
	}
	return unknownKind
}

// String returns the event's wire name, e.g. "track_change".
func (t EventType) String() string {
	return kindOf(t).name
}

// FormatOptions controls line rendering.
type FormatOptions struct {
	Emoji     bool
	Timestamp bool
	// Template, if set, is executed against a Line instead of the default layout.
	Template string
}

// Formatter renders events as single lines of text.
type Formatter struct {
	opts FormatOptions
	tmpl *template.Template
}

// NewFormatter returns a Formatter for opts. It fails if opts.Template does not parse.
func NewFormatter(opts FormatOptions) (*Formatter, error) {
	f := &Formatter{opts: opts}
	if opts.Template != "" {
		tmpl, err := template.New("line").Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid format template: %w", err)
		}
		f.tmpl = tmpl
	}
	return f, nil
}

// Format renders e. A template that fails at execution falls back to the
// default layout so a bad field never drops an event.
func (f *Formatter) Format(e Event) string {
	if f.tmpl != nil {
		var sb strings.Builder
		if err := f.tmpl.Execute(&sb, newLine(e)); err == nil {
			return sb.String()
		}
	}

	k := kindOf(e.Type)
	fields := make([]string, 0, 3)
	if f.opts.Timestamp {
		fields = append(fields, e.Timestamp.Format("15:04:05"))
	}
	if f.opts.Emoji {
		fields = append(fields, k.emoji)
	}
	return strings.Join(append(fields, describe(k, e)), " ")
}

func describe(k kind, e Event) string {
	if k.text != nil {
		if text, ok := k.text(e); ok {
			return text
		}
	}
	return k.fallback
}

func byline(t *core.Track) string {
	return t.ArtistLine() + " - " + t.Title
}

func nowPlaying(e Event) (string, bool) {
	if !e.Current.HasTrack() {
		return "", false
	}
	line := "Now playing: " + byline(e.Current.Track)
	if lang := e.Current.Track.Language; lang != "" {
		line += " [" + lang + "]"
	}
	return line, true
}

func departed(prefix string) func(Event) (string, bool) {
	return func(e Event) (string, bool) {
		if !e.Previous.HasTrack() {
			return "", false
		}
		return prefix + byline(e.Previous.Track), true
	}
}

func hookLine(e Event) (string, bool) {
	at := e.Current.CurrentHook()
	if at == "" {
		return "", false
	}
	return fmt.Sprintf("Hook %d/%d at %s", e.Current.HookIndex+1, len(e.Current.Track.Hooks), at), true
}

func volumeLine(e Event) (string, bool) {
	if e.Current == nil {
		return "", false
	}
	return fmt.Sprintf("Volume: %d%%", volumePercent(e.Current.Volume)), true
}

// Line is the value format templates execute against.
type Line struct {
	Type  string
	Emoji string
	Time  string
	Text  string

	track *core.Track
	snap  *core.Snapshot
}

func newLine(e Event) Line {
	k := kindOf(e.Type)
	l := Line{
		Type:  k.name,
		Emoji: k.emoji,
		Time:  e.Timestamp.Format("15:04:05"),
		Text:  describe(k, e),
		snap:  e.Current,
	}
	if e.Current.HasTrack() {
		l.track = e.Current.Track
	}
	return l
}

// ID is the current track's id.
func (l Line) ID() string {
	if l.track == nil {
		return ""
	}
	return l.track.ID
}

func (l Line) Title() string {
	if l.track == nil {
		return ""
	}
	return l.track.Title
}

func (l Line) Artist() string {
	if l.track == nil {
		return ""
	}
	return l.track.ArtistLine()
}

func (l Line) Language() string {
	if l.track == nil {
		return ""
	}
	return l.track.Language
}

// Hook is the timestamp of the hook currently playing.
func (l Line) Hook() string {
	if l.snap == nil {
		return ""
	}
	return l.snap.CurrentHook()
}

// Volume is the device volume as a percentage.
func (l Line) Volume() int {
	if l.snap == nil {
		return 0
	}
	return volumePercent(l.snap.Volume)
}
