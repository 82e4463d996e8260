// Package history implements back/forward navigation over visited tracks.
//
// The previous stack's tail is the track on screen. Going back moves that
// tail onto the forward stack; going forward moves it back. Both stacks are
// persisted on every mutation and reset when a Navigator is opened.
package history

import (
	"fmt"
	"sync"

	"github.com/tessro/wavehook/internal/kv"
)

const (
	PreviousKey = "previous_history"
	ForwardKey  = "forward_history"
	PlayedKey   = "played_history"
)

// Navigator owns the previous/forward stacks.
type Navigator struct {
	kv       kv.Store
	mu       sync.Mutex
	previous []string
	forward  []string
}

// Open creates a navigator with empty stacks, overwriting whatever a prior
// process left behind.
func Open(s kv.Store) (*Navigator, error) {
	n := &Navigator{kv: s}
	if err := n.persist(); err != nil {
		return nil, err
	}
	return n, nil
}

// RecordNewTrack pushes a freshly acquired id. It is not appended when it
// equals the current tail. The forward stack is always cleared.
func (n *Navigator) RecordNewTrack(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.previous = pushDistinct(n.previous, id)
	n.forward = nil
	if err := n.persist(); err != nil {
		return err
	}
	return n.appendPlayed(id)
}

// PeekBackward returns the id GoBackward would land on.
func (n *Navigator) PeekBackward() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.previous) < 2 {
		return "", false
	}
	return n.previous[len(n.previous)-2], true
}

// GoBackward moves the current id onto the forward stack and returns the
// new current id. It is a no-op when there is nothing to go back to.
func (n *Navigator) GoBackward() (string, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.previous) < 2 {
		return "", false, nil
	}
	last := len(n.previous) - 1
	n.forward = append(n.forward, n.previous[last])
	n.previous = n.previous[:last]
	if err := n.persist(); err != nil {
		return "", false, err
	}
	return n.previous[len(n.previous)-1], true, nil
}

// PeekForward returns the id GoForward would land on.
func (n *Navigator) PeekForward() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.forward) == 0 {
		return "", false
	}
	return n.forward[len(n.forward)-1], true
}

// GoForward pops the forward stack onto previous and returns it.
func (n *Navigator) GoForward() (string, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.forward) == 0 {
		return "", false, nil
	}
	last := len(n.forward) - 1
	id := n.forward[last]
	n.forward = n.forward[:last]
	n.previous = append(n.previous, id)
	if err := n.persist(); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Previous returns a copy of the previous stack, oldest first.
func (n *Navigator) Previous() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.previous...)
}

// Forward returns a copy of the forward stack; the last element is next.
func (n *Navigator) Forward() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.forward...)
}

// Played returns the all-time played log, oldest first.
func Played(s kv.Store) ([]string, error) {
	var played []string
	if _, err := kv.GetJSON(s, PlayedKey, &played); err != nil {
		return nil, err
	}
	return played, nil
}

// ClearPlayed erases the all-time played log.
func ClearPlayed(s kv.Store) error {
	return s.Delete(PlayedKey)
}

func (n *Navigator) persist() error {
	prev, fwd := n.previous, n.forward
	if prev == nil {
		prev = []string{}
	}
	if fwd == nil {
		fwd = []string{}
	}
	if err := kv.SetJSON(n.kv, PreviousKey, prev); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	if err := kv.SetJSON(n.kv, ForwardKey, fwd); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (n *Navigator) appendPlayed(id string) error {
	played, err := Played(n.kv)
	if err != nil {
		return err
	}
	return kv.SetJSON(n.kv, PlayedKey, pushDistinct(played, id))
}

func pushDistinct(stack []string, id string) []string {
	if len(stack) > 0 && stack[len(stack)-1] == id {
		return stack
	}
	return append(stack, id)
}
