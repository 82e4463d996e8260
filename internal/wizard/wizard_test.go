package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguages(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, nil},
		{"trims and lowers", []string{" Hindi ", "TAMIL", ""}, []string{"hindi", "tamil"}},
		{"dedups", []string{"hindi", "hindi", "Hindi"}, []string{"hindi"}},
		{"all wins", []string{"hindi", "all", "tamil"}, []string{"all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLanguages(tt.in))
		})
	}
}

func TestPromptWithoutTerminal(t *testing.T) {
	i := NewInteractive()
	i.isTTY = func() bool { return false }

	langs, ok, err := i.PromptLanguages()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, langs)
}

func TestDisabled(t *testing.T) {
	i := NewInteractive()
	i.isTTY = func() bool { return true }
	i.SetEnabled(false)
	assert.False(t, i.CanInteract())
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Hindi", titleCase("hindi"))
	assert.Equal(t, "", titleCase(""))
}
