package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// dedup tracks in-flight requests by cache key. Concurrent callers of the
// same key share one underlying invocation and its result; the entry is
// dropped the moment the shared call settles, success or failure, so a
// later call always starts fresh.
type dedup struct {
	mu    sync.Mutex
	group *singleflight.Group
}

func (d *dedup) current() *singleflight.Group {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.group == nil {
		d.group = &singleflight.Group{}
	}
	return d.group
}

// reset detaches all pending entries. In-flight calls still complete for
// their existing waiters, but no new caller joins them.
func (d *dedup) reset() {
	d.mu.Lock()
	d.group = &singleflight.Group{}
	d.mu.Unlock()
}

// CacheKey derives the deduplication key for an operation from the store
// name, the operation name and its serialized parameters.
func CacheKey(storeName, op string, params any) string {
	if params == nil {
		return storeName + ":" + op + ":"
	}
	raw, err := json.Marshal(params)
	if err != nil {
		// Unserializable params cannot be deduplicated reliably; make the
		// key unique so the call runs on its own.
		return fmt.Sprintf("%s:%s:!%p", storeName, op, &params)
	}
	return storeName + ":" + op + ":" + string(raw)
}

// Deduplicate runs fn under the given cache key. If a call for the key is
// already outstanding, the caller waits for it and receives the same result
// instead of issuing a second request.
func Deduplicate[T Entity, R any](b *Base[T], key string, fn func() (R, error)) (R, error) {
	v, err, _ := b.dedup.current().Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero R
		return zero, err
	}
	res, ok := v.(R)
	if !ok {
		var zero R
		return zero, fmt.Errorf("deduplicated call %q returned unexpected type %T", key, v)
	}
	return res, nil
}
