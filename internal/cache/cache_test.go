package cache

import (
	"testing"
	"time"

	"github.com/ppiankov/clearview/internal/model"
)

func TestFingerprintNormalization(t *testing.T) {
	base := Fingerprint("GDP grew 3% last year.", "Economy Update")

	same := []struct {
		name     string
		text     string
		headline string
	}{
		{"surrounding whitespace", "  GDP grew 3% last year.  ", "Economy Update"},
		{"case", "gdp GREW 3% last YEAR.", "economy update"},
		{"collapsed internal whitespace", "GDP  grew\t3%\nlast year.", "Economy Update"},
	}
	for _, tc := range same {
		if got := Fingerprint(tc.text, tc.headline); got != base {
			t.Errorf("%s: fingerprint %q, want %q", tc.name, got, base)
		}
	}

	if got := Fingerprint("GDP grew 2% last year.", "Economy Update"); got == base {
		t.Error("different text should produce a different fingerprint")
	}
	if got := Fingerprint("GDP grew 3% last year.", "Other Headline"); got == base {
		t.Error("different headline should produce a different fingerprint")
	}
}

func TestFingerprintLength(t *testing.T) {
	fp := Fingerprint("some article text", "")
	if len(fp) != 16 {
		t.Errorf("fingerprint length = %d, want 16", len(fp))
	}
}

func TestKey(t *testing.T) {
	key := Key("abcdef0123456789")
	if key != "clearview:v1:abcdef0123456789" {
		t.Errorf("unexpected key: %q", key)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for absent key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Get = %q, %v; want %q, true", val, found, "v")
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(Key("deadbeef00000000"), []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get(Key("deadbeef00000000"))
	if !found || string(val) != "payload" {
		t.Errorf("Get = %q, %v; want %q, true", val, found, "payload")
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	c.Set("k", []byte("v"), -time.Second)
	if _, found := c.Get("k"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCachePromotion(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Write through both layers, then drop the memory layer to force a
	// disk read and promotion.
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	c.memory.Clear()

	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("Get after memory clear = %q, %v; want %q, true", val, found, "v")
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("expected disk hit to be promoted to memory")
	}
}

func TestNewFromConfig(t *testing.T) {
	if c := New(model.CacheConfig{Enabled: false}); c != nil {
		t.Error("disabled cache should be nil")
	}

	c := New(model.CacheConfig{Enabled: true, TTL: time.Minute, CleanupInterval: time.Minute})
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected memory cache without dir, got %T", c)
	}

	c = New(model.CacheConfig{Enabled: true, TTL: time.Minute, Dir: t.TempDir()})
	if _, ok := c.(*LayeredCache); !ok {
		t.Errorf("expected layered cache with dir, got %T", c)
	}
}
