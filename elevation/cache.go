package elevation

import "time"

// Cache holds previously resolved per-point elevation values for one
// refresh call. It is built once from the workout's existing segments,
// consulted while recomputing, and discarded afterwards; it is never shared
// across invocations.
type Cache struct {
	values map[cacheKey]float64
}

type cacheKey struct {
	unix int64
	lat  float64
	lon  float64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{values: make(map[cacheKey]float64)}
}

// Put stores the elevation for a point identified by timestamp and
// coordinates.
func (c *Cache) Put(t time.Time, lat, lon float64, elevation float64) {
	c.values[cacheKey{unix: t.Unix(), lat: lat, lon: lon}] = elevation
}

// Get returns the cached elevation for a point, if present.
func (c *Cache) Get(t time.Time, lat, lon float64) (float64, bool) {
	v, ok := c.values[cacheKey{unix: t.Unix(), lat: lat, lon: lon}]
	return v, ok
}

// Len returns the number of cached values.
func (c *Cache) Len() int {
	return len(c.values)
}
