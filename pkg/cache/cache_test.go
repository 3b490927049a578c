package cache

import (
	"testing"
	"time"
)

func TestSetGetAndExpire(t *testing.T) {
	c := New(0)
	key := KeyFromStrings("unit", "expire")

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected no value initially")
	}

	c.Set(key, "hello", 50*time.Millisecond)
	if v, ok := c.Get(key); !ok || v != "hello" {
		t.Fatalf("expected value 'hello', got %q ok=%v", v, ok)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected expired value to be gone")
	}
}

func TestEmptyValueNotCached(t *testing.T) {
	c := New(0)
	key := KeyFromStrings("unit", "empty")
	c.Set(key, "", time.Minute)
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected empty value to be skipped")
	}
}

func TestDelete(t *testing.T) {
	c := New(0)
	key := KeyFromStrings("unit", "delete")
	c.Set(key, "42", time.Minute)
	if v, ok := c.Get(key); !ok || v != "42" {
		t.Fatalf("expected 42 present before delete, got %q ok=%v", v, ok)
	}
	c.Delete(key)
	if _, ok := c.Get(key); ok {
		t.Fatalf("expected deleted value to be absent")
	}
}

func TestLRUEviction(t *testing.T) {
	c := New(2)
	c.Set("a", "1", time.Minute)
	c.Set("b", "2", time.Minute)
	// touch "a" so "b" is the LRU entry
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a present")
	}
	c.Set("c", "3", time.Minute)
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted as LRU")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a retained")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatalf("expected c present")
	}
}

func TestKeyFromStringsStability(t *testing.T) {
	k1 := KeyFromStrings("a", "b", "c")
	k2 := KeyFromStrings("a", "b", "c")
	if k1 != k2 {
		t.Fatalf("expected same inputs to yield same key")
	}
	k3 := KeyFromStrings("a", "b", "d")
	if k1 == k3 {
		t.Fatalf("expected different inputs to yield different key")
	}
}
