package cache

import (
	"testing"
	"time"
)

func TestMemory_GetSet(t *testing.T) {
	c := NewMemory[string](0, 0)

	c.Set("key", "value")
	if got, ok := c.Get("key"); !ok || got != "value" {
		t.Fatalf("Get(key) = %q, %v; want value, true", got, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}
}

func TestMemory_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory[int](time.Minute, 0)
	c.now = func() time.Time { return now }

	c.Set("k", 1)
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}
	now = now.Add(time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry outlived its TTL")
	}
}

func TestMemory_Bounded(t *testing.T) {
	c := NewMemory[int](0, 2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d after overwrite, want 2", c.Len())
	}
	c.Set("c", 3)
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want bound of 2", c.Len())
	}
	if got, ok := c.Get("c"); !ok || got != 3 {
		t.Fatalf("newest entry missing: %d, %v", got, ok)
	}
}

func TestKey(t *testing.T) {
	if Key([]byte("ab"), []byte("c")) == Key([]byte("a"), []byte("bc")) {
		t.Error("Key must separate parts")
	}
	if Key([]byte("x")) != Key([]byte("x")) {
		t.Error("Key must be deterministic")
	}
	if got := len(Key()); got != 32 {
		t.Errorf("len(Key()) = %d, want 32 hex chars", got)
	}
}
