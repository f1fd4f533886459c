// Package store provides the generic entity store every domain store is
// built on: a keyed collection plus a current item, busy/error flags,
// pagination, request deduplication and optimistic-mutation primitives.
//
// Unlike the UI layer it serves, the store is safe for concurrent use: all
// state sits behind a mutex, the busy flag is an operation counter, and
// deduplication is the only point where concurrent callers are forced to
// observe an identical result. Overlapping writes otherwise race freely and
// the last writer wins.
package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/pkg/logger"
)

// Entity is any domain record with an identifier that is stable for its
// lifetime. Server-assigned integer IDs and client-assigned temporary
// tokens both map onto the string key space.
type Entity interface {
	EntityID() string
}

// IntKey converts a server-assigned integer ID into an entity key.
func IntKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// TempID mints a client-assigned placeholder identifier for optimistic
// inserts. It never collides with a server key.
func TempID() string {
	return "tmp-" + uuid.NewString()
}

// Pagination records what the server reported; the store computes nothing
// from it.
type Pagination struct {
	Page     int
	PageSize int
	Total    int
}

func defaultPagination() Pagination {
	return Pagination{Page: 1, PageSize: 20}
}

// Base is the reusable state container for one entity type.
type Base[T Entity] struct {
	name    string
	handler *errhandle.Handler
	log     *logger.Logger

	mu      sync.RWMutex
	items   []T
	current *T
	pag     Pagination
	lastErr string
	active  int

	dedup dedup
}

// BaseOption customizes a Base.
type BaseOption[T Entity] func(*Base[T])

// WithLogger sets the store logger.
func WithLogger[T Entity](log *logger.Logger) BaseOption[T] {
	return func(b *Base[T]) { b.log = log }
}

// New creates an empty store named for diagnostics and cache keys.
func New[T Entity](name string, handler *errhandle.Handler, opts ...BaseOption[T]) *Base[T] {
	if handler == nil {
		handler = errhandle.New()
	}
	b := &Base[T]{
		name:    name,
		handler: handler,
		log:     logger.NewDefault("store." + name),
		pag:     defaultPagination(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the store name.
func (b *Base[T]) Name() string { return b.name }

// Handler returns the error handler, for domain stores that route errors
// outside Execute.
func (b *Base[T]) Handler() *errhandle.Handler { return b.handler }

// Items returns a copy of the collection in display order.
func (b *Base[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the collection size.
func (b *Base[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// CurrentItem returns the focused record, if any.
func (b *Base[T]) CurrentItem() (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		var zero T
		return zero, false
	}
	return *b.current, true
}

// Loading reports whether any operation is in flight.
func (b *Base[T]) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.active > 0
}

// Err returns the message of the most recent failed operation, empty after
// a successful one.
func (b *Base[T]) Err() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// Pagination returns the recorded pagination state.
func (b *Base[T]) Pagination() Pagination {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pag
}

// SetPagination records server-reported pagination.
func (b *Base[T]) SetPagination(page, pageSize, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if page > 0 {
		b.pag.Page = page
	}
	if pageSize > 0 {
		b.pag.PageSize = pageSize
	}
	if total >= 0 {
		b.pag.Total = total
	}
}

// SetItems replaces the collection. Duplicate identifiers are collapsed,
// first occurrence wins, so the uniqueness invariant holds even for
// malformed server payloads.
func (b *Base[T]) SetItems(items []T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]struct{}, len(items))
	next := make([]T, 0, len(items))
	for _, item := range items {
		key := item.EntityID()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		next = append(next, item)
	}
	b.items = next
}

// AddItem prepends an item. An existing entry with the same identifier is
// replaced in place instead, preserving uniqueness.
func (b *Base[T]) AddItem(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := item.EntityID()
	for i := range b.items {
		if b.items[i].EntityID() == key {
			b.items[i] = item
			b.syncCurrentLocked(key, item)
			return
		}
	}
	b.items = append([]T{item}, b.items...)
}

// UpdateItem applies a patch to the entity with the given identifier.
// Unknown identifiers are a silent no-op. The current item is patched too
// when it matches.
func (b *Base[T]) UpdateItem(id string, patch func(T) T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].EntityID() == id {
			b.items[i] = patch(b.items[i])
			break
		}
	}
	if b.current != nil && (*b.current).EntityID() == id {
		updated := patch(*b.current)
		b.current = &updated
	}
}

// ReplaceItem swaps the entity stored under oldID for item, which may carry
// a different identifier (placeholder promotion). The current item follows.
func (b *Base[T]) ReplaceItem(oldID string, item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].EntityID() == oldID {
			b.items[i] = item
			break
		}
	}
	b.syncCurrentLocked(oldID, item)
}

// RemoveItem deletes the entity with the given identifier and clears the
// current item when it matches.
func (b *Base[T]) RemoveItem(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.items {
		if b.items[i].EntityID() == id {
			b.items = append(b.items[:i:i], b.items[i+1:]...)
			break
		}
	}
	if b.current != nil && (*b.current).EntityID() == id {
		b.current = nil
	}
}

// Snapshot returns a copy of the entity with the given identifier, for
// callers that need a pre-mutation state to roll back to.
func (b *Base[T]) Snapshot(id string) (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := range b.items {
		if b.items[i].EntityID() == id {
			return b.items[i], true
		}
	}
	var zero T
	return zero, false
}

// SetCurrentItem sets the focused record.
func (b *Base[T]) SetCurrentItem(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = &item
}

// ClearCurrentItem clears the focused record.
func (b *Base[T]) ClearCurrentItem() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
}

// OptimisticInsert places a placeholder entity at the front of the
// collection before the server confirms creation. The placeholder must
// carry a TempID-minted identifier; RevertInsert removes it on failure.
func (b *Base[T]) OptimisticInsert(item T) {
	b.AddItem(item)
}

// RevertInsert removes an optimistic placeholder. Reverting a patch is
// deliberately not provided here; domain stores restore a Snapshot via
// ReplaceItem instead.
func (b *Base[T]) RevertInsert(tempID string) {
	b.RemoveItem(tempID)
}

// OptimisticUpdate patches an entity ahead of server confirmation. Callers
// own the inverse: take a Snapshot first and ReplaceItem it back on failure.
func (b *Base[T]) OptimisticUpdate(id string, patch func(T) T) {
	b.UpdateItem(id, patch)
}

// Reset clears collection, current item, flags, pagination and all pending
// deduplicated requests. Used on logout and view teardown.
func (b *Base[T]) Reset() {
	b.mu.Lock()
	b.items = nil
	b.current = nil
	b.lastErr = ""
	b.active = 0
	b.pag = defaultPagination()
	b.mu.Unlock()

	b.dedup.reset()
}

func (b *Base[T]) syncCurrentLocked(id string, item T) {
	if b.current != nil && (*b.current).EntityID() == id {
		b.current = &item
	}
}

func (b *Base[T]) beginOp() {
	b.mu.Lock()
	b.active++
	b.lastErr = ""
	b.mu.Unlock()
}

func (b *Base[T]) endOp() {
	b.mu.Lock()
	if b.active > 0 {
		b.active--
	}
	b.mu.Unlock()
}

func (b *Base[T]) recordError(msg string) {
	b.mu.Lock()
	b.lastErr = msg
	b.mu.Unlock()
}

// ExecOption adjusts a single Execute call.
type ExecOption = errhandle.Option

// Silent suppresses the notifier for this operation; the failure still
// lands in the store error state.
func Silent() ExecOption { return errhandle.Silent() }

// Execute runs op with the store busy flag held, routes any failure through
// the error handler and records it in store state. The busy flag is
// released on every exit path. On failure the zero value and the original
// (already normalized) error are returned; the caller reads the message
// from Err.
func Execute[T Entity, R any](b *Base[T], ctx context.Context, op func(context.Context) (R, error), opts ...ExecOption) (R, error) {
	b.beginOp()
	defer b.endOp()

	res, err := op(ctx)
	if err != nil {
		n := b.handler.Handle(err, opts...)
		b.recordError(n.Message)
		var zero R
		return zero, err
	}
	return res, nil
}
