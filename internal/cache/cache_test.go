package cache

import (
	"strconv"
	"testing"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) missed")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %v, %v; want 3, true", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[int, string](0)
	calls := 0
	create := func() string {
		calls++
		return "v"
	}

	for i := 0; i < 3; i++ {
		if got := c.GetOrCreate(7, create); got != "v" {
			t.Fatalf("GetOrCreate() = %q", got)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 2/1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("HitRate = %v", s.HitRate)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](10)
	for i := 0; i < 5; i++ {
		c.Set(strconv.Itoa(i), i)
	}
	if !c.Delete("3") {
		t.Error("Delete(3) = false")
	}
	if c.Delete("3") {
		t.Error("second Delete(3) = true")
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	c.Set("x", 1)
	if v, ok := c.Get("x"); !ok || v != 1 {
		t.Errorf("Get(x) after Clear = %v, %v", v, ok)
	}
}

func BenchmarkCacheGetOrCreate(b *testing.B) {
	c := New[string, int](64)
	keys := make([]string, 100)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.GetOrCreate(keys[i%len(keys)], func() int { return i })
	}
}
