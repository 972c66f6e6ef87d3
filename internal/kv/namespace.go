package kv

import "context"

type namespaced struct {
	prefix string
	inner  Store
}

// Namespace returns a Store that prefixes every key before reaching inner.
func Namespace(inner Store, prefix string) Store {
	return &namespaced{prefix: prefix, inner: inner}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}

func (n *namespaced) MultiRemove(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = n.prefix + k
	}
	return n.inner.MultiRemove(ctx, full...)
}
