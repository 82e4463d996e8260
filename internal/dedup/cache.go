// Package dedup remembers which tracks have been freshly acquired so the
// acquisition protocol can re-roll repeats.
package dedup

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tessro/wavehook/internal/kv"
)

// Key is the KV key holding id -> first-play time.
const Key = "played_songs_cache"

// Entry is one cached track id.
type Entry struct {
	ID       string    `json:"id"`
	PlayedAt time.Time `json:"played_at"`
}

// Options bounds the cache. Zero values disable the corresponding limit.
type Options struct {
	MaxEntries int
	TTL        time.Duration
	Now        func() time.Time
}

// Cache is a write-through set of played track ids.
type Cache struct {
	kv   kv.Store
	opts Options
	mu   sync.Mutex
}

// New creates a cache backed by s.
func New(s kv.Store, opts Options) *Cache {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{kv: s, opts: opts}
}

// Has reports whether id was marked and has not expired.
func (c *Cache) Has(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.load()
	if err != nil {
		return false, err
	}
	at, ok := m[id]
	if !ok {
		return false, nil
	}
	return !c.expired(at, c.opts.Now()), nil
}

// Mark records id as played now. Marking an existing id keeps its original time.
// Expired entries are pruned and the oldest entries evicted past MaxEntries.
func (c *Cache) Mark(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.load()
	if err != nil {
		return err
	}

	now := c.opts.Now()
	for k, at := range m {
		if c.expired(at, now) {
			delete(m, k)
		}
	}
	if _, ok := m[id]; !ok {
		m[id] = now
	}

	if c.opts.MaxEntries > 0 && len(m) > c.opts.MaxEntries {
		entries := sorted(m)
		for _, e := range entries[:len(entries)-c.opts.MaxEntries] {
			delete(m, e.ID)
		}
	}

	return kv.SetJSON(c.kv, Key, m)
}

// Entries returns live entries, oldest first.
func (c *Cache) Entries() ([]Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.load()
	if err != nil {
		return nil, err
	}
	now := c.opts.Now()
	for k, at := range m {
		if c.expired(at, now) {
			delete(m, k)
		}
	}
	return sorted(m), nil
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Delete(Key)
}

func (c *Cache) expired(at, now time.Time) bool {
	return c.opts.TTL > 0 && now.Sub(at) > c.opts.TTL
}

func (c *Cache) load() (map[string]time.Time, error) {
	m := make(map[string]time.Time)
	if _, err := kv.GetJSON(c.kv, Key, &m); err != nil {
		return nil, fmt.Errorf("failed to load played cache: %w", err)
	}
	if m == nil {
		m = make(map[string]time.Time)
	}
	return m, nil
}

func sorted(m map[string]time.Time) []Entry {
	entries := make([]Entry, 0, len(m))
	for id, at := range m {
		entries = append(entries, Entry{ID: id, PlayedAt: at})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].PlayedAt.Equal(entries[j].PlayedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].PlayedAt.Before(entries[j].PlayedAt)
	})
	return entries
}
