package snapcache

import "sync"

// MemoryCache is an in-memory Cache used in tests and as a fallback when no
// cache file path is configured.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	// WriteErr, when set, is returned by every Write. Lets tests exercise
	// the quota-exceeded path.
	WriteErr error
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]byte)}
}

func (c *MemoryCache) Read(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (c *MemoryCache) Write(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.WriteErr != nil {
		return c.WriteErr
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.data[key] = stored
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
