// Package prefs keeps the adaptive per-language preference score.
package prefs

import (
	"fmt"
	"sort"
	"sync"

	"github.com/tessro/wavehook/internal/kv"
)

const (
	// ScoreKey holds the language -> score map.
	ScoreKey = "language_score"
	// InitializedKey records that onboarding has completed.
	InitializedKey = "language_initialized"

	MinScore     = 1
	MaxScore     = 10
	DefaultScore = 5
	PinnedScore  = 8

	// AllLanguages is the onboarding choice meaning "no preference".
	AllLanguages = "all"
)

// Store scores languages from implicit feedback and persists every change.
type Store struct {
	kv kv.Store
	mu sync.Mutex
}

// New creates a preference store on top of s.
func New(s kv.Store) *Store {
	return &Store{kv: s}
}

// Score applies delta to lang, starting unseen languages at DefaultScore
// and clamping the result to [MinScore, MaxScore]. It returns the new score.
func (p *Store) Score(lang string, delta int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	scores, err := p.load()
	if err != nil {
		return 0, err
	}

	cur, ok := scores[lang]
	if !ok {
		cur = DefaultScore
	}
	scores[lang] = clamp(cur + delta)

	if err := kv.SetJSON(p.kv, ScoreKey, scores); err != nil {
		return 0, err
	}
	return scores[lang], nil
}

// BestLanguage returns the language with the highest score.
// Ties go to the lexically smallest tag. ok is false when there are no scores.
func (p *Store) BestLanguage() (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	scores, err := p.load()
	if err != nil {
		return "", false, err
	}

	best, val := "", -1
	for _, lang := range sortedKeys(scores) {
		if scores[lang] > val {
			best, val = lang, scores[lang]
		}
	}
	return best, best != "", nil
}

// Hint returns the preferred_lang value for the next request ("" for none).
func (p *Store) Hint() (string, error) {
	lang, _, err := p.BestLanguage()
	return lang, err
}

// Scores returns a copy of the current score map.
func (p *Store) Scores() (map[string]int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

// Pin completes onboarding. Choosing AllLanguages (or nothing) clears the
// map; otherwise every selected language is set to PinnedScore.
func (p *Store) Pin(langs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	scores := make(map[string]int)
	if !containsAll(langs) {
		for _, l := range langs {
			if l != "" {
				scores[l] = PinnedScore
			}
		}
	}

	if err := kv.SetJSON(p.kv, ScoreKey, scores); err != nil {
		return err
	}
	return kv.SetJSON(p.kv, InitializedKey, true)
}

// Onboarded reports whether Pin has ever been called.
func (p *Store) Onboarded() (bool, error) {
	var done bool
	ok, err := kv.GetJSON(p.kv, InitializedKey, &done)
	if err != nil {
		return false, err
	}
	return ok && done, nil
}

// Reset clears all scores and the onboarding flag.
func (p *Store) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.kv.Delete(ScoreKey); err != nil {
		return err
	}
	return p.kv.Delete(InitializedKey)
}

func (p *Store) load() (map[string]int, error) {
	scores := make(map[string]int)
	if _, err := kv.GetJSON(p.kv, ScoreKey, &scores); err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if scores == nil {
		scores = make(map[string]int)
	}
	return scores, nil
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func containsAll(langs []string) bool {
	if len(langs) == 0 {
		return true
	}
	for _, l := range langs {
		if l == AllLanguages {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
