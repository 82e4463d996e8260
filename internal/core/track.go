package core

import "strings"

// Track represents a playable item returned by the content service.
// Tracks are immutable once fetched.
type Track struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Artists       []string `json:"artists"`
	Language      string   `json:"language"`
	CoverImages   []string `json:"cover_images"`
	AudioVariants []string `json:"audio_variants"`
	Hooks         []string `json:"hooks"`
}

// preferredCover is the cover variant the service marks as 500x500.
const preferredCover = 2

// AudioURL returns the highest-quality audio variant, or "" if none.
func (t *Track) AudioURL() string {
	if t == nil || len(t.AudioVariants) == 0 {
		return ""
	}
	return t.AudioVariants[len(t.AudioVariants)-1]
}

// CoverURL returns the preferred cover variant, falling back to the largest available.
func (t *Track) CoverURL() string {
	if t == nil || len(t.CoverImages) == 0 {
		return ""
	}
	if len(t.CoverImages) > preferredCover {
		return t.CoverImages[preferredCover]
	}
	return t.CoverImages[len(t.CoverImages)-1]
}

// ArtistLine formats the artist list for display.
// More than two artists collapse into "A, B & more".
func (t *Track) ArtistLine() string {
	if t == nil || len(t.Artists) == 0 {
		return "Unknown Artist"
	}
	if len(t.Artists) > 2 {
		return strings.Join(t.Artists[:2], ", ") + " & more"
	}
	return strings.Join(t.Artists, ", ")
}

// LanguageOrUnknown returns the language tag scored when this track arrives.
func (t *Track) LanguageOrUnknown() string {
	if t == nil || t.Language == "" {
		return "unknown"
	}
	return t.Language
}
