package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/wavehook/internal/kv"
)

func TestScoreStartsAtDefault(t *testing.T) {
	p := New(kv.NewMemoryStore())

	got, err := p.Score("hindi", +1)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	got, err = p.Score("tamil", -1)
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestScoreClamps(t *testing.T) {
	p := New(kv.NewMemoryStore())

	var got int
	var err error
	for i := 0; i < 10; i++ {
		got, err = p.Score("punjabi", +1)
		require.NoError(t, err)
	}
	assert.Equal(t, MaxScore, got)

	for i := 0; i < 10; i++ {
		got, err = p.Score("english", -1)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, MinScore)
	}
	assert.Equal(t, MinScore, got)
}

func TestScorePersists(t *testing.T) {
	store := kv.NewMemoryStore()
	_, err := New(store).Score("hindi", +1)
	require.NoError(t, err)

	scores, err := New(store).Scores()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"hindi": 6}, scores)
}

func TestBestLanguage(t *testing.T) {
	p := New(kv.NewMemoryStore())

	_, ok, err := p.BestLanguage()
	require.NoError(t, err)
	assert.False(t, ok)

	hint, err := p.Hint()
	require.NoError(t, err)
	assert.Equal(t, "", hint)

	_, _ = p.Score("tamil", +1)
	_, _ = p.Score("hindi", +1)
	_, _ = p.Score("english", -1)

	// tamil and hindi tie at 6; lexical order picks hindi.
	lang, ok, err := p.BestLanguage()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hindi", lang)

	_, _ = p.Score("tamil", +1)
	lang, _, _ = p.BestLanguage()
	assert.Equal(t, "tamil", lang)
}

func TestPin(t *testing.T) {
	p := New(kv.NewMemoryStore())

	done, err := p.Onboarded()
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, p.Pin([]string{"hindi", "punjabi"}))
	scores, err := p.Scores()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"hindi": PinnedScore, "punjabi": PinnedScore}, scores)

	done, err = p.Onboarded()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestPinAllClears(t *testing.T) {
	tests := []struct {
		name  string
		langs []string
	}{
		{"all", []string{"hindi", AllLanguages}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(kv.NewMemoryStore())
			_, _ = p.Score("hindi", +3)

			require.NoError(t, p.Pin(tt.langs))
			scores, err := p.Scores()
			require.NoError(t, err)
			assert.Empty(t, scores)

			done, _ := p.Onboarded()
			assert.True(t, done)
		})
	}
}

func TestReset(t *testing.T) {
	p := New(kv.NewMemoryStore())
	require.NoError(t, p.Pin([]string{"hindi"}))
	require.NoError(t, p.Reset())

	done, err := p.Onboarded()
	require.NoError(t, err)
	assert.False(t, done)

	scores, err := p.Scores()
	require.NoError(t, err)
	assert.Empty(t, scores)
}
