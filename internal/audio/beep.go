package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/errors"
)

const (
	// SampleRate is the rate the speaker runs at; sources are resampled to it.
	SampleRate = beep.SampleRate(44100)

	speakerBuffer  = 100 * time.Millisecond
	resampleQual   = 4
	maxSourceBytes = 256 << 20
	tickInterval   = 250 * time.Millisecond
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(speakerBuffer))
	})
	if speakerErr != nil {
		return fmt.Errorf("failed to initialize speaker: %w", speakerErr)
	}
	return nil
}

// memFile is an in-memory source. Decoders need a seekable ReadCloser to
// support seeking.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// BeepDevice plays downloaded audio on the local speaker.
type BeepDevice struct {
	httpClient *http.Client
	logger     *zap.Logger

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	level    float64
	gen      int
	playing  bool
	closed   bool
	events   chan core.DeviceEvent
	stopTick chan struct{}
	tickDone chan struct{}
}

// NewBeepDevice creates a speaker-backed device. The speaker is initialized
// lazily on first Load.
func NewBeepDevice(httpClient *http.Client, logger *zap.Logger) *BeepDevice {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &BeepDevice{
		httpClient: httpClient,
		logger:     logger,
		level:      1,
		events:     make(chan core.DeviceEvent, 32),
		stopTick:   make(chan struct{}),
		tickDone:   make(chan struct{}),
	}
	go d.tickLoop()
	return d
}

// Load downloads src, decodes it and queues it paused on the speaker.
func (d *BeepDevice) Load(ctx context.Context, src string) error {
	data, contentType, err := d.fetch(ctx, src)
	if err != nil {
		return err
	}

	streamer, format, err := decode(data, src, contentType)
	if err != nil {
		return err
	}
	if err := initSpeaker(); err != nil {
		_ = streamer.Close()
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		_ = streamer.Close()
		return fmt.Errorf("device closed")
	}

	d.gen++
	gen := d.gen

	var source beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		source = beep.Resample(resampleQual, format.SampleRate, SampleRate, streamer)
	}
	vol := &effects.Volume{
		Streamer: beep.Seq(source, beep.Callback(func() {
			// Runs under the speaker lock; hand off before touching d.mu.
			go d.ended(gen)
		})),
		Base:   2,
		Volume: gain(d.level),
		Silent: d.level <= 0,
	}
	ctrl := &beep.Ctrl{Streamer: vol, Paused: true}

	speaker.Clear()
	if d.streamer != nil {
		_ = d.streamer.Close()
	}
	d.streamer, d.format, d.vol, d.ctrl = streamer, format, vol, ctrl
	d.playing = false
	speaker.Play(ctrl)

	d.logger.Debug("source loaded",
		zap.String("url", src),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Duration("duration", format.SampleRate.D(streamer.Len())))
	d.emitLocked(core.EventLoadedMetadata)
	return nil
}

func (d *BeepDevice) fetch(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download audio: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("failed to download audio: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to download audio: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// decode picks a decoder from the URL extension, then the content type.
func decode(data []byte, src, contentType string) (beep.StreamSeekCloser, beep.Format, error) {
	rc := memFile{bytes.NewReader(data)}

	switch formatOf(src, contentType) {
	case "mp3":
		return mp3.Decode(rc)
	case "wav":
		return wav.Decode(rc)
	case "flac":
		return flac.Decode(rc)
	case "ogg":
		return vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", errors.ErrUnsupportedFormat, src)
	}
}

func formatOf(src, contentType string) string {
	if u, err := url.Parse(src); err == nil {
		switch strings.ToLower(path.Ext(u.Path)) {
		case ".mp3":
			return "mp3"
		case ".wav":
			return "wav"
		case ".flac":
			return "flac"
		case ".ogg", ".oga":
			return "ogg"
		}
	}

	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "audio/mpeg", "audio/mp3":
		return "mp3"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return "wav"
	case "audio/flac", "audio/x-flac":
		return "flac"
	case "audio/ogg", "audio/vorbis":
		return "ogg"
	}
	return ""
}

// gain maps a linear volume in (0,1] to effects.Volume's base-2 exponent.
func gain(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return math.Log2(v)
}

func (d *BeepDevice) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctrl == nil {
		return fmt.Errorf("no source loaded")
	}
	speaker.Lock()
	d.ctrl.Paused = false
	speaker.Unlock()
	d.playing = true
	d.emitLocked(core.EventPlay)
	return nil
}

func (d *BeepDevice) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctrl == nil {
		return nil
	}
	speaker.Lock()
	d.ctrl.Paused = true
	speaker.Unlock()
	d.playing = false
	d.emitLocked(core.EventPause)
	return nil
}

func (d *BeepDevice) Seek(p time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streamer == nil {
		return fmt.Errorf("no source loaded")
	}

	n := d.format.SampleRate.N(p)
	if n < 0 {
		n = 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	if last := d.streamer.Len() - 1; n > last {
		n = last
	}
	if err := d.streamer.Seek(n); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

func (d *BeepDevice) Volume() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.level
}

func (d *BeepDevice) SetVolume(v float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.level = clampVolume(v)
	if d.vol == nil {
		return
	}
	speaker.Lock()
	d.vol.Volume = gain(d.level)
	d.vol.Silent = d.level <= 0
	speaker.Unlock()
}

func (d *BeepDevice) Position() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.positionLocked()
}

func (d *BeepDevice) positionLocked() time.Duration {
	if d.streamer == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return d.format.SampleRate.D(d.streamer.Position())
}

func (d *BeepDevice) Duration() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.streamer == nil {
		return 0
	}
	return d.format.SampleRate.D(d.streamer.Len())
}

func (d *BeepDevice) IsPlaying() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *BeepDevice) Events() <-chan core.DeviceEvent {
	return d.events
}

// Close stops playback and releases the current source.
func (d *BeepDevice) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.stopTick)
	d.mu.Unlock()

	<-d.tickDone

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctrl != nil {
		speaker.Clear()
	}
	var err error
	if d.streamer != nil {
		err = d.streamer.Close()
		d.streamer = nil
	}
	d.ctrl, d.vol = nil, nil
	d.playing = false
	close(d.events)
	return err
}

func (d *BeepDevice) ended(gen int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen || d.closed {
		return
	}
	d.playing = false
	d.emitLocked(core.EventEnded)
}

func (d *BeepDevice) tickLoop() {
	defer close(d.tickDone)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopTick:
			return
		case <-ticker.C:
			d.mu.Lock()
			if d.playing {
				d.emitLocked(core.EventTimeUpdate)
			}
			d.mu.Unlock()
		}
	}
}

// emitLocked sends without blocking; slow consumers miss events.
func (d *BeepDevice) emitLocked(t core.EventType) {
	if d.closed {
		return
	}
	ev := core.DeviceEvent{Type: t, Timestamp: time.Now()}
	if d.streamer != nil {
		ev.Position = d.positionLocked()
		ev.Duration = d.format.SampleRate.D(d.streamer.Len())
	}
	select {
	case d.events <- ev:
	default:
	}
}
