// Package agents maintains the local agent collection and the execution
// flow: CRUD, single-message runs and execution history.
package agents

import (
	"context"
	"sync"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/store"
	"github.com/lingnexus/platform-sdk/transport"
)

// Store is the agent entity store.
type Store struct {
	*store.Base[Agent]
	api *API

	mu         sync.RWMutex
	lastExec   *ExecuteResponse
	executions []Execution
}

// NewStore creates an agent store over the shared transport.
func NewStore(client *transport.Client, handler *errhandle.Handler) *Store {
	return &Store{
		Base: store.New[Agent]("agents", handler),
		api:  NewAPI(client),
	}
}

// List fetches agents matching params into the store. Concurrent calls with
// identical params share a single request.
func (s *Store) List(ctx context.Context, params ListParams) ([]Agent, error) {
	key := store.CacheKey(s.Name(), "list", params)
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Agent, error) {
		items, err := store.Deduplicate(s.Base, key, func() ([]Agent, error) {
			return s.api.List(ctx, params)
		})
		if err != nil {
			return nil, err
		}
		s.SetItems(items)
		return items, nil
	})
}

// Get fetches one agent and makes it the current item.
func (s *Store) Get(ctx context.Context, id int64) (Agent, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Agent, error) {
		agent, err := s.api.Get(ctx, id)
		if err != nil {
			return Agent{}, err
		}
		s.SetCurrentItem(agent)
		return agent, nil
	})
}

// Create creates the agent server-side and prepends it locally.
func (s *Store) Create(ctx context.Context, req CreateRequest) (Agent, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Agent, error) {
		created, err := s.api.Create(ctx, req)
		if err != nil {
			return Agent{}, err
		}
		s.AddItem(created)
		return created, nil
	})
}

// Update confirms the change with the server, then applies it locally.
func (s *Store) Update(ctx context.Context, id int64, req UpdateRequest) (Agent, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Agent, error) {
		updated, err := s.api.Update(ctx, id, req)
		if err != nil {
			return Agent{}, err
		}
		s.ReplaceItem(store.IntKey(id), updated)
		return updated, nil
	})
}

// Delete removes the agent server-side first, then drops it locally.
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

// Execute runs one message through the agent and records the outcome as the
// store's last execution.
func (s *Store) Execute(ctx context.Context, id int64, message string) (ExecuteResponse, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (ExecuteResponse, error) {
		resp, err := s.api.Execute(ctx, id, ExecuteRequest{Message: message})
		if err != nil {
			return ExecuteResponse{}, err
		}
		s.mu.Lock()
		s.lastExec = &resp
		s.mu.Unlock()
		return resp, nil
	})
}

// LastExecution returns the outcome of the most recent Execute call.
func (s *Store) LastExecution() (ExecuteResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastExec == nil {
		return ExecuteResponse{}, false
	}
	return *s.lastExec, true
}

// FetchExecutions loads an agent's run history into the store.
func (s *Store) FetchExecutions(ctx context.Context, id int64, params ExecutionListParams) ([]Execution, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) ([]Execution, error) {
		execs, err := s.api.Executions(ctx, id, params)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.executions = execs
		s.mu.Unlock()
		return execs, nil
	})
}

// FetchExecution fetches one run in full.
func (s *Store) FetchExecution(ctx context.Context, agentID, executionID int64) (Execution, error) {
	return store.Execute(s.Base, ctx, func(ctx context.Context) (Execution, error) {
		return s.api.Execution(ctx, agentID, executionID)
	})
}

// Executions returns a copy of the loaded run history.
func (s *Store) Executions() []Execution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Execution, len(s.executions))
	copy(out, s.executions)
	return out
}

// Reset clears the collection and the execution state.
func (s *Store) Reset() {
	s.Base.Reset()
	s.mu.Lock()
	s.lastExec = nil
	s.executions = nil
	s.mu.Unlock()
}
