package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("graph-bytes"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v; want hit", ok, err)
	}
	if string(data) != "graph-bytes" {
		t.Errorf("data = %q, want %q", data, "graph-bytes")
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected a miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("deleted entry should be a miss")
	}
	// Deleting again is a no-op.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Error("null cache should never hit")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a := k.GraphKey("hash1", GraphKeyOpts{TargetTaxon: "ecoli"})
	b := k.GraphKey("hash1", GraphKeyOpts{TargetTaxon: "ecoli"})
	if a != b {
		t.Error("identical inputs should produce identical keys")
	}
	if !strings.HasPrefix(a, "graph:") {
		t.Errorf("key = %q, want graph: prefix", a)
	}

	if k.GraphKey("hash1", GraphKeyOpts{TargetTaxon: "other"}) == a {
		t.Error("changed options should change the key")
	}
	if k.GraphKey("hash2", GraphKeyOpts{TargetTaxon: "ecoli"}) == a {
		t.Error("changed content hash should change the key")
	}

	// Stage prefixes keep the namespaces apart.
	if k.FocusKey("hash1", FocusKeyOpts{}) == k.GraphKey("hash1", GraphKeyOpts{}) {
		t.Error("different stages must not collide")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "project:gut42:")

	key := k.ArtifactKey("abc", ArtifactKeyOpts{Seed: 42, Format: "svg"})
	if !strings.HasPrefix(key, "project:gut42:artifact:") {
		t.Errorf("key = %q, want scoped prefix", key)
	}
}

func TestRetryWithBackoffStopsOnPermanent(t *testing.T) {
	permanent := errors.New("bad input")
	calls := 0

	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Errorf("err = %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent errors)", calls)
	}
}

func TestRetryWithBackoffRetries(t *testing.T) {
	calls := 0

	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})

	if err != nil {
		t.Errorf("err = %v, want nil after retry", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestHashStable(t *testing.T) {
	if Hash([]byte("x")) != Hash([]byte("x")) {
		t.Error("hash should be stable")
	}
	if Hash([]byte("x")) == Hash([]byte("y")) {
		t.Error("different inputs should hash differently")
	}
	if len(Hash([]byte("x"))) != 64 {
		t.Error("hash should be 64 hex chars")
	}
}
