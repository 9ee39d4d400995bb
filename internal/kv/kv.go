// Package kv defines the key-value persistence contract every repository is
// built on, plus typed JSON helpers for collection keys.
package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Fixed keys, one per stored collection or object.
const (
	KeyPatients      = "zentherapy_patients"
	KeyTherapyTypes  = "zentherapy_therapy_types"
	KeyPractitioners = "zentherapy_practitioners"
	KeySessions      = "zentherapy_sessions"
	KeyFeedback      = "zentherapy_feedback"
	KeyNotifications = "zentherapy_notifications"
	KeyProgress      = "zentherapy_progress"
	KeyAppointments  = "zentherapy_appointments"
	KeyUsers         = "zentherapy_users"
	KeyCurrentUser   = "zentherapy_current_user"
	KeySettings      = "zentherapy_settings"
	KeyAuditLog      = "zentherapy_audit_log"
)

var ErrNotFound = errors.New("kv: key not found")

// DecodeError reports a stored value that is not valid JSON for its target type.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("kv: decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UpdateFunc receives the current value (nil, false when absent) and returns the
// value to store. Returning an error aborts the update without writing.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Store is the only I/O primitive of the service. Implementations must make
// Update atomic per key with respect to every other Update and Put on the same
// key issued through the same Store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

var bufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

func encode(v any) ([]byte, error) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// The pooled buffer is reused, so hand back a copy without the trailing newline.
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return bytes.Clone(out), nil
}

// Exists reports whether key holds a value.
func Exists(ctx context.Context, s Store, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Load parses the collection under key. An absent key is an empty collection.
func Load[T any](ctx context.Context, s Store, key string) ([]T, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	return decodeList[T](key, raw)
}

// Save serializes items and stores them under key.
func Save[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := encode(items)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}

// Mutate runs fn over the collection under key as one atomic read-modify-write.
func Mutate[T any](ctx context.Context, s Store, key string, fn func(items []T) ([]T, error)) error {
	return s.Update(ctx, key, func(current []byte, found bool) ([]byte, error) {
		items := []T{}
		if found {
			var err error
			if items, err = decodeList[T](key, current); err != nil {
				return nil, err
			}
		}
		next, err := fn(items)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []T{}
		}
		data, err := encode(next)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		return data, nil
	})
}

// LoadObject parses the single object under key into v.
// It returns ErrNotFound when the key is absent.
func LoadObject(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &DecodeError{Key: key, Err: err}
	}
	return nil
}

func SaveObject(ctx context.Context, s Store, key string, v any) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}

func decodeList[T any](key string, raw []byte) ([]T, error) {
	items := []T{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &DecodeError{Key: key, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

var errPresent = errors.New("kv: key present")

// SeedIfAbsent stores items under key only when the key holds nothing yet.
// It reports whether it wrote.
func SeedIfAbsent[T any](ctx context.Context, s Store, key string, items []T) (bool, error) {
	data, err := encode(items)
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", key, err)
	}
	err = s.Update(ctx, key, func(_ []byte, found bool) ([]byte, error) {
		if found {
			return nil, errPresent
		}
		return data, nil
	})
	if errors.Is(err, errPresent) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
