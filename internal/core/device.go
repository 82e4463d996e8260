package core

import "time"

// EventType identifies a playback device lifecycle event.
type EventType int

const (
	EventPlay EventType = iota
	EventPause
	EventEnded
	EventLoadedMetadata
	EventTimeUpdate
)

func (t EventType) String() string {
	switch t {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventTimeUpdate:
		return "timeupdate"
	default:
		return "unknown"
	}
}

// DeviceEvent is emitted by a Device on state changes.
type DeviceEvent struct {
	Type      EventType
	Timestamp time.Time
	Position  time.Duration
	Duration  time.Duration
}
