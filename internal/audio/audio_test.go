package audio

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/wavehook/internal/core"
	"github.com/tessro/wavehook/internal/errors"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		src         string
		contentType string
		want        string
	}{
		{"https://cdn/a.mp3", "", "mp3"},
		{"https://cdn/a.MP3?sig=1", "", "mp3"},
		{"https://cdn/a.wav", "", "wav"},
		{"https://cdn/a.flac", "", "flac"},
		{"https://cdn/a.ogg", "", "ogg"},
		{"https://cdn/stream", "audio/mpeg", "mp3"},
		{"https://cdn/stream", "audio/ogg; codecs=vorbis", "ogg"},
		{"https://cdn/a.mp4", "audio/mp4", ""},
		{"https://cdn/stream", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.src+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, formatOf(tt.src, tt.contentType))
		})
	}
}

func TestGain(t *testing.T) {
	assert.Equal(t, 0.0, gain(1))
	assert.Equal(t, -1.0, gain(0.5))
	assert.True(t, math.IsInf(gain(0), -1))
}

func writeWAV(t *testing.T, samples int, rate beep.SampleRate) []byte {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(p)
	require.NoError(t, err)
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(samples), format))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return data
}

func TestDecodeWAV(t *testing.T) {
	data := writeWAV(t, 22050, 22050)

	s, format, err := decode(data, "https://cdn/tone.wav", "")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, beep.SampleRate(22050), format.SampleRate)
	assert.Equal(t, 22050, s.Len())
	assert.Equal(t, time.Second, format.SampleRate.D(s.Len()))

	require.NoError(t, s.Seek(11025))
	assert.Equal(t, 11025, s.Position())
}

func TestDecodeUnsupported(t *testing.T) {
	_, _, err := decode([]byte("not audio"), "https://cdn/a.mp4", "audio/mp4")
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestBeepDeviceFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := NewBeepDevice(srv.Client(), nil)
	defer d.Close()

	err := d.Load(context.Background(), srv.URL+"/missing.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	assert.Error(t, d.Play())
	assert.Equal(t, time.Duration(0), d.Position())
	assert.False(t, d.IsPlaying())
}

func TestBeepDeviceVolumeBeforeLoad(t *testing.T) {
	d := NewBeepDevice(nil, nil)
	defer d.Close()

	d.SetVolume(2)
	assert.Equal(t, 1.0, d.Volume())
	d.SetVolume(0.25)
	assert.Equal(t, 0.25, d.Volume())
}

func TestBeepDeviceCloseIdempotent(t *testing.T) {
	d := NewBeepDevice(nil, nil)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	_, ok := <-d.Events()
	assert.False(t, ok)
}

func TestNullDevice(t *testing.T) {
	d := NewNullDevice()
	ctx := context.Background()

	assert.Error(t, d.Play(), "nothing loaded")

	require.NoError(t, d.Load(ctx, "https://cdn/a.mp3"))
	assert.Equal(t, core.EventLoadedMetadata, (<-d.Events()).Type)

	require.NoError(t, d.Play())
	assert.True(t, d.IsPlaying())
	assert.Equal(t, core.EventPlay, (<-d.Events()).Type)

	require.NoError(t, d.Seek(45*time.Second))
	assert.Equal(t, 45*time.Second, d.Position())
	require.NoError(t, d.Seek(time.Hour))
	assert.Equal(t, d.Duration(), d.Position())

	d.SetVolume(-1)
	assert.Equal(t, 0.0, d.Volume())

	d.Finish()
	assert.False(t, d.IsPlaying())
	assert.Equal(t, core.EventEnded, (<-d.Events()).Type)

	require.NoError(t, d.Pause())
	assert.Equal(t, core.EventPause, (<-d.Events()).Type)

	assert.Equal(t, []string{"https://cdn/a.mp3"}, d.Loaded())
	assert.Equal(t, []time.Duration{45 * time.Second, d.Duration()}, d.Seeks())

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}

func TestNullDeviceFailures(t *testing.T) {
	d := NewNullDevice()
	defer d.Close()
	ctx := context.Background()

	d.FailLoad(fmt.Errorf("offline"))
	assert.Error(t, d.Load(ctx, "x"))
	d.FailLoad(nil)
	require.NoError(t, d.Load(ctx, "x"))

	d.FailPlay(fmt.Errorf("blocked"))
	assert.Error(t, d.Play())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, d.Load(cancelled, "y"))
}

func TestOpen(t *testing.T) {
	d, err := Open("none", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &NullDevice{}, d)
	require.NoError(t, d.Close())

	d, err = Open("beep", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &BeepDevice{}, d)
	require.NoError(t, d.Close())

	_, err = Open("alsa", nil, nil)
	assert.Error(t, err)
}
