package content

import (
	"fmt"
	"html"

	"github.com/tessro/wavehook/internal/core"
)

// WireTrack is the track document returned by the service.
type WireTrack struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Language    string      `json:"language"`
	Image       []Variant   `json:"image"`
	DownloadURL []Variant   `json:"downloadUrl"`
	Artists     WireArtists `json:"artists"`
	Hook        WireHooks   `json:"hook"`
}

// Variant is one quality rendition of an image or audio file.
type Variant struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// WireArtists groups artist credits.
type WireArtists struct {
	Primary []WireArtist `json:"primary"`
}

// WireArtist is a single credited artist.
type WireArtist struct {
	Name string `json:"name"`
}

// WireHooks holds the curated hook timestamps, each "mm:ss" or empty.
type WireHooks struct {
	Prime     string `json:"primehook"`
	Secondary string `json:"sechook"`
	Tertiary  string `json:"subhook"`
}

// Validate checks the fields the player cannot work without.
func (w *WireTrack) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("track has no id")
	}
	for _, v := range w.DownloadURL {
		if v.URL != "" {
			return nil
		}
	}
	return fmt.Errorf("track %s has no audio variant", w.ID)
}

// Track converts the wire document into the domain type, decoding HTML
// entities the service leaves in display strings.
func (w *WireTrack) Track() *core.Track {
	t := &core.Track{
		ID:       w.ID,
		Title:    html.UnescapeString(w.Name),
		Language: w.Language,
		Hooks:    extractHooks(w.Hook),
	}
	for _, a := range w.Artists.Primary {
		if a.Name != "" {
			t.Artists = append(t.Artists, html.UnescapeString(a.Name))
		}
	}
	t.CoverImages = urls(w.Image)
	t.AudioVariants = urls(w.DownloadURL)
	return t
}

func urls(vs []Variant) []string {
	var out []string
	for _, v := range vs {
		if v.URL != "" {
			out = append(out, v.URL)
		}
	}
	return out
}

func extractHooks(h WireHooks) []string {
	var hooks []string
	for _, ts := range []string{h.Prime, h.Secondary, h.Tertiary} {
		if ts != "" {
			hooks = append(hooks, ts)
		}
	}
	if len(hooks) == 0 {
		return []string{"00:00"}
	}
	return hooks
}
