// Package kv provides the small key-value store that holds player state
// between runs: preference scores, the dedup cache and history stacks.
package kv

import (
	"encoding/json"
	"fmt"

	"github.com/tessro/wavehook/internal/config"
)

// Store is a synchronous key-value store. Writes are durable when Set returns.
type Store interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Open creates the store selected by cfg.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "", "file", "sqlite":
		path, err := cfg.StorePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve store path: %w", err)
		}
		if cfg.Driver == "sqlite" {
			return NewSQLiteStore(path)
		}
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// GetJSON decodes the value at key into v. It reports whether the key existed.
func GetJSON(s Store, key string, v any) (bool, error) {
	data, ok, err := s.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return s.Set(key, data)
}
