// Package kvtest holds Store doubles for exercising failure paths.
package kvtest

import (
	"context"
	"errors"
	"sync"

	"museumrewards/internal/kv"
)

var ErrUnavailable = errors.New("store unavailable")

// Failing fails every call.
type Failing struct{}

func (Failing) Get(context.Context, string) (string, bool, error) { return "", false, ErrUnavailable }
func (Failing) Set(context.Context, string, string) error         { return ErrUnavailable }
func (Failing) Remove(context.Context, string) error              { return ErrUnavailable }
func (Failing) MultiRemove(context.Context, ...string) error      { return ErrUnavailable }

// Recorder wraps a store and can fail writes to selected keys.
type Recorder struct {
	kv.Store

	mu         sync.Mutex
	failWrites map[string]bool
	Calls      []string
}

func NewRecorder(inner kv.Store) *Recorder {
	return &Recorder{Store: inner, failWrites: make(map[string]bool)}
}

func (r *Recorder) FailWrites(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failWrites[key] = true
}

func (r *Recorder) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.Calls = append(r.Calls, "set "+key)
	fail := r.failWrites[key]
	r.mu.Unlock()
	if fail {
		return ErrUnavailable
	}
	return r.Store.Set(ctx, key, value)
}

func (r *Recorder) MultiRemove(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	r.Calls = append(r.Calls, "multiremove")
	r.mu.Unlock()
	return r.Store.MultiRemove(ctx, keys...)
}
