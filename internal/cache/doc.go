// Package cache provides the bounded LRU cache used to memoise text shaping.
//
//	c := cache.New[string, int](128)
//	v := c.GetOrCreate("key", func() int { return 42 })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
