package cli

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/wavehook/internal/config"
	"github.com/tessro/wavehook/internal/engine"
	"github.com/tessro/wavehook/internal/errors"
	"github.com/tessro/wavehook/internal/logging"
)

var (
	cfgFile      string
	jsonOut      bool
	outputFormat string
	verbose      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wavehook",
	Short: "Swipe through music one hook at a time",
	Long: `Wavehook is a discovery player: every track starts at its catchiest
moment, and how long you stay on it teaches the player what to play next.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.wavehookrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON (shorthand for --output json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
		if stderrors.Is(err, fs.ErrNotExist) && cmd == configInitCmd {
			cfg, err = config.Default(), nil
		}
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	if _, err := parseOutputMode(); err != nil {
		return err
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// newLogger builds the command logger. Interactive commands pass false so
// nothing but the log file sees output.
func newLogger(toStderr bool) (*zap.Logger, error) {
	logCfg := cfg.Log
	if verbose && toStderr {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg, toStderr && verbose)
}

// openRuntime opens the persistent stores for a command.
func openRuntime(toStderr bool) (*engine.Runtime, error) {
	logger, err := newLogger(toStderr)
	if err != nil {
		return nil, err
	}
	rt, err := engine.OpenRuntime(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return rt, nil
}

func closeRuntime(rt *engine.Runtime) {
	_ = rt.Close()
	_ = rt.Logger.Sync()
}
