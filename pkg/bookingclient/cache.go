package bookingclient

import "sync"

// SequencedCache guards concurrently refreshed resources against out-of-order
// responses. A fetch obtains a sequence number before the request goes out;
// its result is committed only if no newer fetch has been issued for the same
// key in the meantime, so a slow response can never overwrite a fresher one.
type SequencedCache[T any] struct {
	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
	values  map[string]T
}

func NewSequencedCache[T any]() *SequencedCache[T] {
	return &SequencedCache[T]{
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
		values:  make(map[string]T),
	}
}

// Begin registers a fetch for key and returns its sequence number.
func (c *SequencedCache[T]) Begin(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued[key]++
	return c.issued[key]
}

// Commit stores value under key if seq still belongs to the latest issued
// fetch. It reports whether the value was applied.
func (c *SequencedCache[T]) Commit(key string, seq uint64, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.issued[key] || seq <= c.applied[key] {
		return false
	}
	c.applied[key] = seq
	c.values[key] = value
	return true
}

// Get returns the last committed value for key.
func (c *SequencedCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// Invalidate drops the committed value for key. In-flight fetches keep their
// sequence numbers, so a stale response still cannot resurrect the old value.
func (c *SequencedCache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}
