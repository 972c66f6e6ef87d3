package kv

import (
	"context"
	"testing"
)

func TestTypedHelpersDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	n, found, err := GetInt(ctx, s, "coins")
	if err != nil || found || n != 0 {
		t.Fatalf("GetInt on empty store = %d, %v, %v", n, found, err)
	}
	b, err := GetBool(ctx, s, "flag")
	if err != nil || b {
		t.Fatalf("GetBool on empty store = %v, %v", b, err)
	}
	ids, found, err := GetJSON[[]string](ctx, s, "ids")
	if err != nil || found || ids != nil {
		t.Fatalf("GetJSON on empty store = %v, %v, %v", ids, found, err)
	}
}

func TestTypedHelpersEncoding(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	if err := SetInt(ctx, s, "coins", 42); err != nil {
		t.Fatal(err)
	}
	if raw, _, _ := s.Get(ctx, "coins"); raw != "42" {
		t.Fatalf("int encoded as %q", raw)
	}
	if err := SetBool(ctx, s, "flag", true); err != nil {
		t.Fatal(err)
	}
	if raw, _, _ := s.Get(ctx, "flag"); raw != "true" {
		t.Fatalf("bool encoded as %q", raw)
	}
	if err := SetBool(ctx, s, "flag", false); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.Get(ctx, "flag"); found {
		t.Fatal("false flag should be absent")
	}
	if err := SetJSON(ctx, s, "ids", []string{"a", "7"}); err != nil {
		t.Fatal(err)
	}
	if raw, _, _ := s.Get(ctx, "ids"); raw != `["a","7"]` {
		t.Fatalf("json encoded as %q", raw)
	}
}

func TestGetBoolOnlyExactTrue(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	_ = s.Set(ctx, "flag", "TRUE")
	if b, _ := GetBool(ctx, s, "flag"); b {
		t.Fatal("only the literal \"true\" unlocks")
	}
}

func TestGetIntCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	_ = s.Set(ctx, "coins", "lots")
	if _, _, err := GetInt(ctx, s, "coins"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	backing := NewMemory()
	alice := Namespace(backing, "user:a:")
	bob := Namespace(backing, "user:b:")

	_ = alice.Set(ctx, "coins", "10")
	_ = alice.Set(ctx, "marker", "x")
	_ = bob.Set(ctx, "coins", "99")

	if err := alice.MultiRemove(ctx, "coins", "marker"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := alice.Get(ctx, "coins"); found {
		t.Fatal("alice coins should be removed")
	}
	if v, _, _ := bob.Get(ctx, "coins"); v != "99" {
		t.Fatalf("bob coins = %q, want 99", v)
	}
	keys := backing.Keys()
	if len(keys) != 1 || keys[0] != "user:b:coins" {
		t.Fatalf("backing keys = %v", keys)
	}
}
