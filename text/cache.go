package text

import "github.com/gogpu/maplabel/internal/cache"

// DefaultShapingCacheSize is the capacity used by NewCachedShaper for a
// non-positive size.
const DefaultShapingCacheSize = 1024

type shapingKey struct {
	text string
	opts ShapeOptions
}

type shapingResult struct {
	shaping *Shaping
	ok      bool
}

// CachedShaper memoises another Shaper. Cached shapings are shared between
// callers and must be treated as read-only. The cache assumes the glyph atlas
// passed to Shape does not change for a given font stack.
type CachedShaper struct {
	next  Shaper
	cache *cache.Cache[shapingKey, shapingResult]
}

// NewCachedShaper wraps next with an LRU cache of the given size.
func NewCachedShaper(next Shaper, size int) (*CachedShaper, error) {
	if next == nil {
		return nil, ErrNilShaper
	}
	if size <= 0 {
		size = DefaultShapingCacheSize
	}
	return &CachedShaper{
		next:  next,
		cache: cache.New[shapingKey, shapingResult](size),
	}, nil
}

// Shape implements Shaper.
func (c *CachedShaper) Shape(t *Formatted, opts ShapeOptions, atlas GlyphAtlas) (*Shaping, bool) {
	key := shapingKey{text: t.key(), opts: opts}
	r := c.cache.GetOrCreate(key, func() shapingResult {
		s, ok := c.next.Shape(t, opts, atlas)
		return shapingResult{shaping: s, ok: ok}
	})
	return r.shaping, r.ok
}

// Len returns the number of cached shapings.
func (c *CachedShaper) Len() int { return c.cache.Len() }

// HitRate returns the fraction of Shape calls served from the cache.
func (c *CachedShaper) HitRate() float64 { return c.cache.Stats().HitRate }
