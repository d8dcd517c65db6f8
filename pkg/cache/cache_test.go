package cache

import (
	"context"
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

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want value", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete still hits")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry still hits")
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get = hit %v, err %v, want miss", hit, err)
	}
}

func TestKeyerDeterministic(t *testing.T) {
	k := NewDefaultKeyer()
	opts := LayoutKeyOpts{Width: 800, Height: 600, MaxTicks: 500, Seed: 42}

	a := k.LayoutKey("hash1", opts)
	b := k.LayoutKey("hash1", opts)
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "layout:") {
		t.Errorf("key %s lacks layout: prefix", a)
	}

	opts.Seed = 43
	if c := k.LayoutKey("hash1", opts); c == a {
		t.Error("different seed produced identical key")
	}
	if d := k.LayoutKey("hash2", opts); d == a {
		t.Error("different graph hash produced identical key")
	}
}

func TestScopedKeyerPrefix(t *testing.T) {
	k := NewScopedKeyer(NewDefaultKeyer(), "project:p1:")
	key := k.DocumentKey("abc")
	if !strings.HasPrefix(key, "project:p1:doc:") {
		t.Errorf("scoped key = %s, want project:p1:doc: prefix", key)
	}
}
