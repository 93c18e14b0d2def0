// Package mirror keeps best-effort copies of client state in a durable
// key/value store so it survives a restart. Failures never reach the caller:
// a broken mirror behaves like an empty one.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mykitchen/kitchen/pkg/logger"
)

// Logical keys.
const (
	SessionKey = "user"
	CartKey    = "items"
)

// ErrNotFound is returned by a Backend when a key has never been written.
var ErrNotFound = errors.New("mirror: key not found")

// Backend is the raw byte store behind a Mirror.
type Backend interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Mirror serializes values as JSON into a Backend. A nil *Mirror, or one with a
// nil backend, is a disabled mirror.
type Mirror struct {
	backend Backend
	timeout time.Duration
}

const defaultTimeout = 2 * time.Second

func New(backend Backend, timeout time.Duration) *Mirror {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Mirror{backend: backend, timeout: timeout}
}

// Disabled returns a mirror that stores nothing.
func Disabled() *Mirror {
	return &Mirror{}
}

// Save writes value under key. Errors are logged and dropped.
func (m *Mirror) Save(key string, value any) {
	if m == nil || m.backend == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Mirror serialization failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.backend.Put(ctx, key, data); err != nil {
		logger.Warn("Mirror write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}

	logger.Debug("Mirror written", map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	})
}

// Load decodes the value under key into out. It reports false when the key is
// absent, unreadable or malformed; out is left untouched in that case.
func (m *Mirror) Load(key string, out any) bool {
	if m == nil || m.backend == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	data, err := m.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Mirror read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return false
	}
	if len(data) == 0 || string(data) == "null" {
		return false
	}

	// Decode into a scratch value first so a malformed payload cannot half-fill out.
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Mirror payload malformed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Warn("Mirror payload does not match target", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	return true
}

// Remove deletes key. Errors are logged and dropped.
func (m *Mirror) Remove(key string) {
	if m == nil || m.backend == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.backend.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Warn("Mirror delete failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
