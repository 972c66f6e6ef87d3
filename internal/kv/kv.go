// Package kv defines the string-keyed store the rewards core persists into,
// plus typed accessors layered over it.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Store is a durable string-keyed store. A missing key is reported with
// found=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// MultiRemove deletes all keys in one request to the backing store.
	MultiRemove(ctx context.Context, keys ...string) error
}

const trueValue = "true"

func GetInt(ctx context.Context, s Store, key string) (int, bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return 0, false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, true, nil
}

func SetInt(ctx context.Context, s Store, key string, value int) error {
	return s.Set(ctx, key, strconv.Itoa(value))
}

// GetBool reports true only for the exact value "true".
func GetBool(ctx context.Context, s Store, key string) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	return raw == trueValue, nil
}

// SetBool stores "true", or removes the key for false.
func SetBool(ctx context.Context, s Store, key string, value bool) error {
	if !value {
		return s.Remove(ctx, key)
	}
	return s.Set(ctx, key, trueValue)
}

func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var out T
	raw, found, err := s.Get(ctx, key)
	if err != nil || !found {
		return out, false, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, true, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, true, nil
}

func SetJSON[T any](ctx context.Context, s Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}
