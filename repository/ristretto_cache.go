package repository

import (
	"github.com/dgraph-io/ristretto"
	"github.com/pkg/errors"
)

// RistrettoCache is a bounded in-process cache with admission-based
// eviction. Every entry costs 1, so MaxCost is the entry capacity.
type RistrettoCache struct {
	cache    *ristretto.Cache
	capacity int
}

func NewRistrettoCache(capacity int) (*RistrettoCache, error) {
	if capacity < 1 {
		capacity = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(capacity) * 10,
		MaxCost:     int64(capacity),
		BufferItems: 64,
		Metrics:     true,
		// Count entries only, otherwise each item also pays ristretto's
		// internal overhead and MaxCost no longer means entries.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create ristretto cache")
	}
	return &RistrettoCache{cache: cache, capacity: capacity}, nil
}

func (r *RistrettoCache) Get(key string) (string, bool) {
	val, ok := r.cache.Get(key)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

func (r *RistrettoCache) Set(key string, value string) error {
	// Writes are buffered; Wait makes them visible to the next Get.
	r.cache.Set(key, value, 1)
	r.cache.Wait()
	return nil
}

func (r *RistrettoCache) Len() int {
	m := r.cache.Metrics
	if m == nil {
		return 0
	}
	added, evicted := m.KeysAdded(), m.KeysEvicted()
	if evicted >= added {
		return 0
	}
	return int(added - evicted)
}

func (r *RistrettoCache) Capacity() int {
	return r.capacity
}

func (r *RistrettoCache) Close() {
	r.cache.Close()
}
