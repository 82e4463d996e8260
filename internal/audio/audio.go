// Package audio provides playback devices for the engine.
package audio

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/core"
)

// Open returns the device named by kind: "beep" for the local speaker or
// "none" for a silent device that only tracks state.
func Open(kind string, httpClient *http.Client, logger *zap.Logger) (core.Device, error) {
	switch kind {
	case "", "beep":
		return NewBeepDevice(httpClient, logger), nil
	case "none":
		return NewNullDevice(), nil
	default:
		return nil, fmt.Errorf("unknown audio device %q", kind)
	}
}
