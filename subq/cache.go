package subq

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// resultCache memoizes successful tool results so a batch that repeats the
// same call does not re-run the tool. Opt-in via Config; errors are never
// cached.
type resultCache struct {
	mu      sync.RWMutex
	entries map[string]cachedResult
	ttl     time.Duration
	maxSize int
	hits    int64
	misses  int64
}

type cachedResult struct {
	content   string
	timestamp time.Time
}

func newResultCache(ttl time.Duration, maxSize int) *resultCache {
	return &resultCache{
		entries: make(map[string]cachedResult),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// key derives a deterministic cache key from the tool name and its raw
// argument text.
func (rc *resultCache) key(name, rawArgs string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(rawArgs))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (rc *resultCache) get(name, rawArgs string) (string, bool) {
	k := rc.key(name, rawArgs)

	rc.mu.Lock()
	defer rc.mu.Unlock()

	cached, ok := rc.entries[k]
	if !ok || time.Since(cached.timestamp) > rc.ttl {
		rc.misses++
		return "", false
	}
	rc.hits++
	return cached.content, true
}

func (rc *resultCache) set(name, rawArgs, content string) {
	k := rc.key(name, rawArgs)

	rc.mu.Lock()
	defer rc.mu.Unlock()

	// Evict the oldest entry when full.
	if len(rc.entries) >= rc.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for key, v := range rc.entries {
			if oldestTime.IsZero() || v.timestamp.Before(oldestTime) {
				oldestKey = key
				oldestTime = v.timestamp
			}
		}
		if oldestKey != "" {
			delete(rc.entries, oldestKey)
		}
	}

	rc.entries[k] = cachedResult{content: content, timestamp: time.Now()}
}

// stats returns hit/miss counters.
func (rc *resultCache) stats() (hits, misses int64) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.hits, rc.misses
}
