// Package hook seeks playback to curated hook points with a volume crossfade.
package hook

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultHooks is used when a track carries no curated hook.
var DefaultHooks = []string{"00:00"}

// ParseTimestamp converts "mm:ss" into a duration. Malformed input yields 0.
func ParseTimestamp(ts string) time.Duration {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 2 {
		return 0
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 0 {
		return 0
	}
	s, err := strconv.Atoi(parts[1])
	if err != nil || s < 0 {
		return 0
	}
	return time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// FormatTimestamp renders d as "mm:ss".
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Normalize returns hooks with blanks dropped, or DefaultHooks if none remain.
func Normalize(hooks []string) []string {
	var out []string
	for _, h := range hooks {
		if strings.TrimSpace(h) != "" {
			out = append(out, h)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultHooks...)
	}
	return out
}
