// Package monitoring maintains clinical-trial watch projects, the trial
// records scraped for them, aggregate statistics and a background refresher
// that keeps trial data current while a project view is open.
package monitoring

import (
	"context"
	"sync"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/store"
	"github.com/lingnexus/platform-sdk/transport"
)

// Store is the monitoring entity store. Projects are the primary
// collection; trials and statistics hang off it.
type Store struct {
	*store.Base[Project]
	api *API

	mu     sync.RWMutex
	trials []Trial
	stats  *Statistics
}

// NewStore creates a monitoring store over the shared transport.
func NewStore(client *transport.Client, handler *errhandle.Handler) *Store {
	return &Store{
		Base: store.New[Project]("monitoring", handler),
		api:  NewAPI(client),
	}
}

// ListProjects fetches projects matching params into the store.
func (s *Store) ListProjects(ctx context.Context, params ProjectListParams) ([]Project, error) {
	key := store.CacheKey(s.Name(), "projects", params)
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Project, error) {
		items, err := store.Deduplicate(s.Base, key, func() ([]Project, error) {
			return s.api.ListProjects(ctx, params)
		})
		if err != nil {
			return nil, err
		}
		s.SetItems(items)
		return items, nil
	})
}

// GetProject fetches one project and makes it the current item.
func (s *Store) GetProject(ctx context.Context, id int64) (Project, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Project, error) {
		p, err := s.api.GetProject(ctx, id)
		if err != nil {
			return Project{}, err
		}
		s.SetCurrentItem(p)
		return p, nil
	})
}

// CreateProject creates the project server-side and prepends it locally.
func (s *Store) CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Project, error) {
		created, err := s.api.CreateProject(ctx, req)
		if err != nil {
			return Project{}, err
		}
		s.AddItem(created)
		return created, nil
	})
}

// UpdateProject confirms the change with the server, then applies it locally.
func (s *Store) UpdateProject(ctx context.Context, id int64, req UpdateProjectRequest) (Project, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Project, error) {
		updated, err := s.api.UpdateProject(ctx, id, req)
		if err != nil {
			return Project{}, err
		}
		s.ReplaceItem(store.IntKey(id), updated)
		return updated, nil
	})
}

// DeleteProject removes the project server-side first, then drops it locally.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	_, err := store.Execute(s.Base, ctx, func(ctx context.Context) (struct{}, error) {
		if err := s.api.DeleteProject(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.RemoveItem(store.IntKey(id))
		return struct{}{}, nil
	})
	return err
}

// FetchTrials loads trials matching params into the store.
func (s *Store) FetchTrials(ctx context.Context, params TrialListParams) ([]Trial, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Trial, error) {
		trials, err := s.api.ListTrials(ctx, params)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.trials = trials
		s.mu.Unlock()
		return trials, nil
	})
}

// FetchTrial fetches one trial in full.
func (s *Store) FetchTrial(ctx context.Context, id int64) (Trial, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Trial, error) {
		return s.api.GetTrial(ctx, id)
	})
}

// Trials returns a copy of the loaded trial list.
func (s *Store) Trials() []Trial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Trial, len(s.trials))
	copy(out, s.trials)
	return out
}

// FetchStatistics loads the aggregate summary.
func (s *Store) FetchStatistics(ctx context.Context) (Statistics, error) {
	stats, err := store.Execute(s.Base, ctx, func(ctx context.Context) (Statistics, error) {
		return s.api.Statistics(ctx)
	}, store.Silent())
	if err != nil {
		return Statistics{}, err
	}
	s.mu.Lock()
	s.stats = &stats
	s.mu.Unlock()
	return stats, nil
}

// Statistics returns the last loaded aggregate summary.
func (s *Store) Statistics() (Statistics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return Statistics{}, false
	}
	return *s.stats, true
}

// Reset clears projects, trials and statistics.
func (s *Store) Reset() {
	s.Base.Reset()
	s.mu.Lock()
	s.trials = nil
	s.stats = nil
	s.mu.Unlock()
}
