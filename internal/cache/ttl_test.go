package cache

import (
	"testing"
	"time"

	"github.com/carbonctrl/carbonctrl/internal/clock"
)

func TestTTLCacheExpiry(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := NewTTLCache[string, int](WithNowFunc[string, int](fake.Now))

	c.Set("a", 1, time.Minute)

	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Fatalf("expected hit with value 1, got %v %v", got, ok)
	}

	fake.Advance(2 * time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
}

func TestTTLCacheZeroTTLIgnored(t *testing.T) {
	c := NewTTLCache[string, string]()
	c.Set("a", "value", 0)
	if _, ok := c.Get("a"); ok {
		t.Fatal("zero ttl entries must not be stored")
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected delete to remove entry")
	}
}
