package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrRemoteUnavailable  = errors.New("content service unavailable")
	ErrDuplicateTrack     = errors.New("duplicate track")
	ErrEmptyHistory       = errors.New("no history in that direction")
	ErrPlaybackRejected   = errors.New("playback rejected by device")
	ErrBusy               = errors.New("transition already in flight")
	ErrOnboardingRequired = errors.New("language onboarding not completed")
	ErrUnsupportedFormat  = errors.New("unsupported audio format")
	ErrConfigNotFound     = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// WavehookError wraps an error with a user-friendly suggestion.
type WavehookError struct {
	Err        error
	Suggestion string
}

func (e *WavehookError) Error() string {
	return e.Err.Error()
}

func (e *WavehookError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &WavehookError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// Remote wraps err so that it matches ErrRemoteUnavailable.
func Remote(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRemoteUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
}

// IsSoft reports whether err is one the player absorbs without surfacing:
// an ignored gesture, an empty history move or a refused resume.
func IsSoft(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, ErrEmptyHistory) || errors.Is(err, ErrPlaybackRejected)
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var whErr *WavehookError
	if errors.As(err, &whErr) && whErr.Suggestion != "" {
		return whErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrOnboardingRequired) {
		return "Run 'wavehook onboard' or 'wavehook prefs pin <lang...>' to choose your languages"
	}

	if errors.Is(err, ErrDuplicateTrack) {
		return "The service keeps returning tracks you've heard. Try 'wavehook cache clear'"
	}

	if errors.Is(err, ErrRemoteUnavailable) || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Check that the content service is reachable (service.base_url) and try again"
	}

	if errors.Is(err, ErrPlaybackRejected) {
		return "Press space to start playback"
	}

	if errors.Is(err, ErrUnsupportedFormat) {
		return "Set playback.audio = \"none\" to browse without local audio"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) || strings.Contains(errStr, "config") {
		return "Run 'wavehook config init' to create a configuration file"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
