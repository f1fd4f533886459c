// Package skills maintains the local skill collection: CRUD against the
// skill endpoints, framework sync, and an optimistic create flow that shows
// a placeholder entry until the server confirms it.
package skills

import (
	"context"
	"time"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/store"
	"github.com/lingnexus/platform-sdk/transport"
)

// Store is the skill entity store.
type Store struct {
	*store.Base[Skill]
	api *API
}

// NewStore creates a skill store over the shared transport.
func NewStore(client *transport.Client, handler *errhandle.Handler) *Store {
	return &Store{
		Base: store.New[Skill]("skills", handler),
		api:  NewAPI(client),
	}
}

// List fetches skills matching params into the store. Concurrent calls with
// identical params share a single request.
func (s *Store) List(ctx context.Context, params ListParams) ([]Skill, error) {
	key := store.CacheKey(s.Name(), "list", params)
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Skill, error) {
		items, err := store.Deduplicate(s.Base, key, func() ([]Skill, error) {
			return s.api.List(ctx, params)
		})
		if err != nil {
			return nil, err
		}
		s.SetItems(items)
		return items, nil
	})
}

// Get fetches one skill and makes it the current item.
func (s *Store) Get(ctx context.Context, id int64) (Skill, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Skill, error) {
		skill, err := s.api.Get(ctx, id)
		if err != nil {
			return Skill{}, err
		}
		s.SetCurrentItem(skill)
		return skill, nil
	})
}

// Create inserts an optimistic placeholder at the front of the collection,
// then swaps in the server record on success or removes the placeholder on
// failure.
func (s *Store) Create(ctx context.Context, req CreateRequest) (Skill, error) {
	now := time.Now()
	placeholder := Skill{
		TempID:    store.TempID(),
		Name:      req.Name,
		Category:  req.Category,
		Content:   req.Content,
		Meta:      req.Meta,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.OptimisticInsert(placeholder)

	return store.Execute(s.Base, ctx, func(ctx context.Context) (Skill, error) {
		created, err := s.api.Create(ctx, req)
		if err != nil {
			s.RevertInsert(placeholder.TempID)
			return Skill{}, err
		}
		s.ReplaceItem(placeholder.TempID, created)
		return created, nil
	})
}

// Update applies the patch optimistically, confirms it with the server and
// rolls the entry back to its snapshot on failure.
func (s *Store) Update(ctx context.Context, id int64, req UpdateRequest) (Skill, error) {
	key := store.IntKey(id)
	prev, hadPrev := s.Snapshot(key)
	if hadPrev {
		s.OptimisticUpdate(key, func(sk Skill) Skill {
			if req.Content != nil {
				sk.Content = *req.Content
			}
			if req.Meta != nil {
				sk.Meta = req.Meta
			}
			if req.IsActive != nil {
				sk.IsActive = *req.IsActive
			}
			return sk
		})
	}

	return store.Execute(s.Base, ctx, func(ctx context.Context) (Skill, error) {
		updated, err := s.api.Update(ctx, id, req)
		if err != nil {
			if hadPrev {
				s.ReplaceItem(key, prev)
			}
			return Skill{}, err
		}
		s.ReplaceItem(key, updated)
		return updated, nil
	})
}

// Delete removes the skill server-side first, then drops it locally.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := store.Execute(s.Base, ctx, func(ctx context.Context) (struct{}, error) {
		if err := s.api.Delete(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.RemoveItem(store.IntKey(id))
		return struct{}{}, nil
	})
	return err
}

// Sync imports framework skills and refreshes the collection with the
// default listing so new entries show up.
func (s *Store) Sync(ctx context.Context, forceUpdate bool) (SyncResult, error) {
	res, err := store.Execute(s.Base, ctx, func(ctx context.Context) (SyncResult, error) {
		return s.api.Sync(ctx, forceUpdate)
	})
	if err != nil {
		return SyncResult{}, err
	}
	if res.Created > 0 || res.Updated > 0 {
		if _, lerr := s.List(ctx, ListParams{}); lerr != nil {
			return res, lerr
		}
	}
	return res, nil
}

// SyncStatus reports the framework library state without touching the
// collection.
func (s *Store) SyncStatus(ctx context.Context) (SyncStatus, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (SyncStatus, error) {
		return s.api.SyncStatus(ctx)
	}, store.Silent())
}
