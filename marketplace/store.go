// Package marketplace maintains the shared-skill listing: browse, trial
// runs, save/unsave bookmarks, ratings and one-click agent creation.
package marketplace

import (
	"context"
	"sync"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/store"
	"github.com/lingnexus/platform-sdk/transport"
)

// Store is the marketplace entity store. Besides the main listing it keeps
// the user's saved-skill list and the most recent trial result.
type Store struct {
	*store.Base[Skill]
	api *API

	mu         sync.RWMutex
	saved      []Skill
	tryResult  *TryResponse
	lastParams ListParams
}

// NewStore creates a marketplace store over the shared transport.
func NewStore(client *transport.Client, handler *errhandle.Handler) *Store {
	return &Store{
		Base: store.New[Skill]("marketplace", handler),
		api:  NewAPI(client),
	}
}

// List fetches marketplace skills matching params into the store and
// remembers params for aggregate refreshes after rating.
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
		s.mu.Lock()
		s.lastParams = params
		s.mu.Unlock()
		return items, nil
	})
}

// Get fetches one listing and makes it the current item.
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

// Try runs a trial message against a listing and records the result.
func (s *Store) Try(ctx context.Context, id int64, message string) (TryResponse, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (TryResponse, error) {
		resp, err := s.api.Try(ctx, id, TryRequest{Message: message})
		if err != nil {
			return TryResponse{}, err
		}
		s.mu.Lock()
		s.tryResult = &resp
		s.mu.Unlock()
		return resp, nil
	})
}

// TryResult returns the most recent trial outcome.
func (s *Store) TryResult() (TryResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tryResult == nil {
		return TryResponse{}, false
	}
	return *s.tryResult, true
}

// ClearTryResult drops the recorded trial outcome.
func (s *Store) ClearTryResult() {
	s.mu.Lock()
	s.tryResult = nil
	s.mu.Unlock()
}

// CreateAgent builds a personal agent around a listing.
func (s *Store) CreateAgent(ctx context.Context, id int64, req CreateAgentRequest) (CreatedAgent, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (CreatedAgent, error) {
		return s.api.CreateAgent(ctx, id, req)
	})
}

// Save bookmarks a listing. The saved flag flips locally only after the
// server confirms.
func (s *Store) Save(ctx context.Context, id int64) error {
	_, err := store.Execute(s.Base, ctx, func(ctx context.Context) (struct{}, error) {
		if err := s.api.Save(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.setSaved(id, true)
		return struct{}{}, nil
	})
	return err
}

// Unsave removes a bookmark.
func (s *Store) Unsave(ctx context.Context, id int64) error {
	_, err := store.Execute(s.Base, ctx, func(ctx context.Context) (struct{}, error) {
		if err := s.api.Unsave(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.setSaved(id, false)
		return struct{}{}, nil
	})
	return err
}

func (s *Store) setSaved(id int64, saved bool) {
	s.UpdateItem(store.IntKey(id), func(sk Skill) Skill {
		sk.IsSaved = saved
		return sk
	})
}

// Rate submits the user's rating. The personal rating lands locally right
// away; the aggregate is server-computed, so the affected listing and detail
// are refetched rather than recomputed here.
func (s *Store) Rate(ctx context.Context, id int64, rating int, comment string) (Rating, error) {
	res, err := store.Execute(s.Base, ctx, func(ctx context.Context) (Rating, error) {
		return s.api.Rate(ctx, id, RateRequest{Rating: rating, Comment: comment})
	})
	if err != nil {
		return Rating{}, err
	}

	key := store.IntKey(id)
	if _, inList := s.Snapshot(key); inList {
		s.UpdateItem(key, func(sk Skill) Skill {
			r := rating
			sk.UserRating = &r
			return sk
		})
		s.mu.RLock()
		params := s.lastParams
		s.mu.RUnlock()
		if _, lerr := s.List(ctx, params); lerr != nil {
			return res, lerr
		}
	}
	if cur, ok := s.CurrentItem(); ok && cur.ID == id {
		if _, gerr := s.Get(ctx, id); gerr != nil {
			return res, gerr
		}
	}
	return res, nil
}

// FetchSaved loads the user's saved-skill list.
func (s *Store) FetchSaved(ctx context.Context, params SavedListParams) ([]Skill, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Skill, error) {
		items, err := s.api.Saved(ctx, params)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.saved = items
		s.mu.Unlock()
		return items, nil
	})
}

// SavedSkills returns a copy of the loaded saved-skill list.
func (s *Store) SavedSkills() []Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Skill, len(s.saved))
	copy(out, s.saved)
	return out
}

// Reset clears the listing plus the saved list and trial state.
func (s *Store) Reset() {
	s.Base.Reset()
	s.mu.Lock()
	s.saved = nil
	s.tryResult = nil
	s.lastParams = ListParams{}
	s.mu.Unlock()
}
