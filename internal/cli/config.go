package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/wavehook/internal/config"
	"github.com/tessro/wavehook/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing wavehook configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, defaults and environment overrides included.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  service.base_url                Content service URL
  service.timeout                 Request timeout in seconds
  service.max_rerolls             Re-rolls before giving up on duplicates
  store.driver                    file, sqlite or memory
  store.path                      State file location
  cache.max_entries               Played cache size
  cache.ttl                       Played cache lifetime in hours
  navigation.dwell_threshold_ms   Liked/skipped boundary
  navigation.swipe_threshold      Fraction of the viewport a drag must cover
  playback.audio                  beep or none
  playback.fade_ms                Crossfade ramp length
  log.level                       debug, info, warn or error
  log.file                        Log file path

Examples:
  wavehook config set service.base_url http://localhost:5000
  wavehook config set store.driver sqlite`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if Structured() {
		return writeStructured(out, cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(out)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", errors.ErrConfigNotFound, configPath)
	}

	// Find editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeConfigFile(configPath, config.Default()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if Structured() {
		return writeStructured(out, map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	_, _ = fmt.Fprintf(out, "Created config file: %s\n", configPath)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Point service.base_url at your content service (or set WAVEHOOK_SERVICE_BASE_URL)")
	_, _ = fmt.Fprintln(out, "  2. Run 'wavehook onboard' to pick your languages")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".wavehookrc"
	}

	return filepath.Join(home, ".wavehookrc")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", errors.ErrConfigNotFound, configPath)
	}

	// Edit the raw TOML so unrelated keys keep their file values
	var rawConfig map[string]interface{}
	if _, err := toml.DecodeFile(configPath, &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., service.base_url)")
	}
	section, field := parts[0], parts[1]

	typedValue, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typedValue

	// Refuse to write a file that would no longer load
	check := &config.Config{}
	if err := remarshal(rawConfig, check); err != nil {
		return fmt.Errorf("%w: %s: %w", errors.ErrInvalidConfig, key, err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	if err := writeConfigFile(configPath, rawConfig); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if Structured() {
		return writeStructured(out, map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	_, _ = fmt.Fprintf(out, "Set %s = %s\n", key, value)
	return nil
}

// parseConfigValue converts value to the TOML type of key.
func parseConfigValue(key, value string) (interface{}, error) {
	switch key {
	case "service.timeout", "service.max_rerolls", "cache.max_entries", "cache.ttl",
		"navigation.dwell_threshold_ms", "navigation.settle_ms", "navigation.transition_timeout",
		"playback.fade_ms", "playback.fade_steps", "playback.settle_ms", "tui.refresh_interval":
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer for %s", key)
		}
		return int64(i), nil
	case "navigation.swipe_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("value must be a number for %s", key)
		}
		return f, nil
	default:
		return value, nil
	}
}

// remarshal round-trips raw through TOML into dst.
func remarshal(raw map[string]interface{}, dst *config.Config) error {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(raw); err != nil {
		return err
	}
	_, err := toml.Decode(b.String(), dst)
	return err
}

func writeConfigFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	_, _ = fmt.Fprintln(f, "# Wavehook Configuration")
	_, _ = fmt.Fprintln(f, "")

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
