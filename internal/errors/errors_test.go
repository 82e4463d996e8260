package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteWrapsOnce(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	err := Remote(base)

	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.ErrorIs(t, err, base)
	assert.Same(t, err, Remote(err))
	assert.NoError(t, Remote(nil))
}

func TestIsSoft(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrBusy, true},
		{fmt.Errorf("back: %w", ErrEmptyHistory), true},
		{ErrPlaybackRejected, true},
		{ErrRemoteUnavailable, false},
		{errors.New("boom"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSoft(tt.err), tt.err.Error())
	}
}

func TestGetSuggestion(t *testing.T) {
	assert.Empty(t, GetSuggestion(nil))
	assert.Contains(t, GetSuggestion(ErrOnboardingRequired), "wavehook onboard")
	assert.Contains(t, GetSuggestion(Remote(errors.New("eof"))), "service.base_url")
	assert.Equal(t, "custom", GetSuggestion(WithSuggestion(errors.New("x"), "custom")))
	assert.Empty(t, GetSuggestion(errors.New("something else")))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "Error: boom", Format(errors.New("boom")))
	assert.Contains(t, Format(ErrDuplicateTrack), "Suggestion: ")
}
