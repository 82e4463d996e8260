package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// OutputMode represents the output format.
type OutputMode int

const (
	OutputText OutputMode = iota
	OutputJSON
	OutputYAML
)

func parseOutputMode() (OutputMode, error) {
	if jsonOut {
		return OutputJSON, nil
	}
	switch strings.ToLower(outputFormat) {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	case "yaml", "yml":
		return OutputYAML, nil
	default:
		return OutputText, fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
	}
}

// GetOutputMode returns the current output mode.
func GetOutputMode() OutputMode {
	mode, _ := parseOutputMode()
	return mode
}

// Structured reports whether output should be machine-readable.
func Structured() bool {
	return GetOutputMode() != OutputText
}

// writeStructured encodes v in the current structured format.
func writeStructured(w io.Writer, v any) error {
	switch GetOutputMode() {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTableWriter creates a table writing to out.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// TruncateString truncates s to maxWidth display cells, adding "..." if truncated.
func TruncateString(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// ScoreBar renders a preference score as a fixed-width bar.
func ScoreBar(score, limit int) string {
	if score < 0 {
		score = 0
	}
	if score > limit {
		score = limit
	}
	return strings.Repeat("█", score) + strings.Repeat("░", limit-score)
}
