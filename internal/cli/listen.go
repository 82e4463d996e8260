package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/engine"
	"github.com/tessro/wavehook/internal/errors"
	"github.com/tessro/wavehook/internal/tail"
)

var (
	listenNoEmoji   bool
	listenTimestamp bool
	listenFormat    string
	listenInterval  time.Duration
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Play without the dashboard and print what happens",
	Long: `Start a session without the dashboard. Playback events are printed as
they happen and commands are read from stdin, one per line:

  n, j, <enter>   Next track
  p, k            Previous track
  h               Next hook
  t, space        Play/Pause
  q               Quit

Format templates can use {{.Type}}, {{.Emoji}}, {{.Time}}, {{.ID}},
{{.Title}}, {{.Artist}}, {{.Language}}, {{.Hook}} and {{.Volume}}.`,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().BoolVar(&listenNoEmoji, "no-emoji", false, "disable emoji output")
	listenCmd.Flags().BoolVarP(&listenTimestamp, "timestamp", "t", false, "show timestamps")
	listenCmd.Flags().StringVarP(&listenFormat, "format", "f", "", "custom format template")
	listenCmd.Flags().DurationVarP(&listenInterval, "interval", "i", 250*time.Millisecond, "poll interval")
	listenCmd.Flags().StringVar(&playAudio, "audio", "", "audio device: beep or none (default: playback.audio)")

	rootCmd.AddCommand(listenCmd)
}

func runListen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := openRuntime(true)
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

	formatter, err := tail.NewFormatter(tail.FormatOptions{
		Emoji:     !listenNoEmoji,
		Timestamp: listenTimestamp,
		Template:  listenFormat,
	})
	if err != nil {
		return err
	}
	return listen(ctx, ctrl, formatter, listenInterval, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// listen drives ctrl from line commands on in and prints watcher events to out
// until ctx is done, in is exhausted or a quit command is read.
func listen(ctx context.Context, ctrl *engine.Controller, formatter *tail.Formatter,
	interval time.Duration, in io.Reader, out, errOut io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := ctrl.Start(ctx); err != nil {
		return err
	}

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = ctrl.Run(ctx)
	}()

	watcher := tail.NewWatcher(ctrl, interval)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		_ = watcher.Start(ctx)
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	defer func() {
		cancel()
		<-runDone
		<-watchDone
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintln(out, formatter.Format(event))

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := dispatch(ctx, ctrl, line)
			if quit {
				return nil
			}
			// Failed transitions leave the session where it was, so keep going.
			if err != nil && !stderrors.Is(err, errors.ErrBusy) {
				_, _ = fmt.Fprintln(errOut, errors.Format(err))
			}
		}
	}
}

// dispatch runs one line command against ctrl.
func dispatch(ctx context.Context, ctrl *engine.Controller, line string) (quit bool, err error) {
	if line == " " {
		return false, ctrl.TogglePlay()
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "n", "j", "next":
		return false, ctrl.Bridge().Forward(ctx)
	case "p", "k", "prev", "back":
		return false, ctrl.Bridge().Backward(ctx)
	case "h", "hook":
		_, err := ctrl.NextHook()
		return false, err
	case "t", "space", "pause", "play":
		return false, ctrl.TogglePlay()
	case "q", "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", line)
	}
}
