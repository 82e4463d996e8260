package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/audio"
	"github.com/tessro/wavehook/internal/engine"
	"github.com/tessro/wavehook/internal/tui"
)

var (
	playRefresh int
	playAudio   string
)

var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"ui", "tui"},
	Short:   "Launch the swipe player",
	Long: `Launch the interactive player.

Each track starts at its hook. Stay on a track for more than the dwell
threshold and its language is scored up; leave early and it is scored down.

Navigation:
  Scroll / drag up, j, n    Next track
  Scroll / drag down, k, p  Previous track
  h, Tab                    Jump to the next hook
  Space                     Play/Pause
  ?                         Help
  q, Ctrl+C                 Quit`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playRefresh, "refresh", 0, "refresh interval in milliseconds (default: tui.refresh_interval)")
	playCmd.Flags().StringVar(&playAudio, "audio", "", "audio device: beep or none (default: playback.audio)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(false)
	if err != nil {
		return err
	}
	defer closeRuntime(rt)

	if err := ensureOnboarded(rt); err != nil {
		return err
	}

	ctrl, err := newController(rt)
	if err != nil {
		return err
	}
	defer func() { _ = ctrl.Close() }()

	refresh := cfg.TUI.RefreshInterval
	if playRefresh > 0 {
		refresh = playRefresh
	}
	return tui.Run(ctrl, rt.Prefs, time.Duration(refresh)*time.Millisecond)
}

// newController opens the configured audio device and starts a session on it.
func newController(rt *engine.Runtime) (*engine.Controller, error) {
	kind := cfg.Playback.Audio
	if playAudio != "" {
		kind = playAudio
	}

	dev, err := audio.Open(kind, nil, rt.Logger.Named("audio"))
	if err != nil {
		return nil, fmt.Errorf("failed to open audio: %w", err)
	}

	ctrl, err := rt.NewController(dev, nil)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	return ctrl, nil
}
