package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/transport"
)

type marketServer struct {
	mu        sync.Mutex
	skills    []Skill
	listCalls int32
	getCalls  int32
}

func newMarketServer() *marketServer {
	rating := 4.2
	return &marketServer{
		skills: []Skill{
			{ID: 10, Name: "summarize", Category: "internal", SharingScope: ScopePublic, Rating: &rating, RatingCount: 5},
			{ID: 11, Name: "translate", Category: "external", SharingScope: ScopePublic},
		},
	}
}

func (s *marketServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /marketplace/skills", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.listCalls, 1)
		s.mu.Lock()
		defer s.mu.Unlock()
		json.NewEncoder(w).Encode(s.skills)
	})
	mux.HandleFunc("GET /marketplace/skills/{id}", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.getCalls, 1)
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, sk := range s.skills {
			if sk.ID == id {
				json.NewEncoder(w).Encode(sk)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"not found"}`))
	})
	mux.HandleFunc("POST /marketplace/skills/{id}/save", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"saved"}`))
	})
	mux.HandleFunc("DELETE /marketplace/skills/{id}/save", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /marketplace/skills/{id}/rate", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		var req RateRequest
		json.NewDecoder(r.Body).Decode(&req)
		// server recomputes the aggregate
		s.mu.Lock()
		for i := range s.skills {
			if s.skills[i].ID == id {
				agg := float64(req.Rating)
				s.skills[i].Rating = &agg
				s.skills[i].RatingCount++
			}
		}
		s.mu.Unlock()
		json.NewEncoder(w).Encode(Rating{ID: 1, SkillID: id, Rating: req.Rating})
	})
	mux.HandleFunc("POST /marketplace/skills/{id}/try", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TryResponse{Status: "completed", OutputMessage: "result"})
	})
	mux.HandleFunc("GET /marketplace/my/saved", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var saved []Skill
		for _, sk := range s.skills {
			if sk.IsSaved {
				saved = append(saved, sk)
			}
		}
		json.NewEncoder(w).Encode(saved)
	})
	return mux
}

func newTestStore(t *testing.T, srv *httptest.Server) *Store {
	t.Helper()
	client := transport.New(transport.Config{BaseURL: srv.URL})
	return NewStore(client, errhandle.New())
}

func TestSaveFlipsFlagAfterConfirmation(t *testing.T) {
	server := newMarketServer()
	srv := httptest.NewServer(server.handler())
	defer srv.Close()
	s := newTestStore(t, srv)

	_, err := s.List(context.Background(), ListParams{})
	require.NoError(t, err)
	_, err = s.Get(context.Background(), 10)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), 10))

	snap, ok := s.Snapshot("10")
	require.True(t, ok)
	assert.True(t, snap.IsSaved, "list entry flips")
	cur, ok := s.CurrentItem()
	require.True(t, ok)
	assert.True(t, cur.IsSaved, "current detail flips")

	require.NoError(t, s.Unsave(context.Background(), 10))
	snap, _ = s.Snapshot("10")
	assert.False(t, snap.IsSaved)
}

func TestRateRefetchesListAndDetail(t *testing.T) {
	server := newMarketServer()
	srv := httptest.NewServer(server.handler())
	defer srv.Close()
	s := newTestStore(t, srv)

	_, err := s.List(context.Background(), ListParams{SortBy: "rating"})
	require.NoError(t, err)
	_, err = s.Get(context.Background(), 10)
	require.NoError(t, err)

	listsBefore := atomic.LoadInt32(&server.listCalls)
	getsBefore := atomic.LoadInt32(&server.getCalls)

	rating, err := s.Rate(context.Background(), 10, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Rating)

	assert.Equal(t, listsBefore+1, atomic.LoadInt32(&server.listCalls), "aggregate refresh refetches the list")
	assert.Equal(t, getsBefore+1, atomic.LoadInt32(&server.getCalls), "matching detail is refetched")

	snap, _ := s.Snapshot("10")
	require.NotNil(t, snap.Rating)
	assert.Equal(t, 5.0, *snap.Rating, "server-computed aggregate lands via refetch")
}

func TestRateOutsideListSkipsRefetch(t *testing.T) {
	server := newMarketServer()
	srv := httptest.NewServer(server.handler())
	defer srv.Close()
	s := newTestStore(t, srv)

	// nothing listed, no current item
	listsBefore := atomic.LoadInt32(&server.listCalls)
	_, err := s.Rate(context.Background(), 10, 4, "")
	require.NoError(t, err)
	assert.Equal(t, listsBefore, atomic.LoadInt32(&server.listCalls), "no refetch when the skill is not held locally")
}

func TestTryRecordsResult(t *testing.T) {
	server := newMarketServer()
	srv := httptest.NewServer(server.handler())
	defer srv.Close()
	s := newTestStore(t, srv)

	resp, err := s.Try(context.Background(), 10, "hello")
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	got, ok := s.TryResult()
	require.True(t, ok)
	assert.Equal(t, "result", got.OutputMessage)

	s.ClearTryResult()
	_, ok = s.TryResult()
	assert.False(t, ok)
}

func TestFetchSaved(t *testing.T) {
	server := newMarketServer()
	server.skills[0].IsSaved = true
	srv := httptest.NewServer(server.handler())
	defer srv.Close()
	s := newTestStore(t, srv)

	saved, err := s.FetchSaved(context.Background(), SavedListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, len(saved))
	assert.Equal(t, int64(10), saved[0].ID)
	assert.Equal(t, saved, s.SavedSkills())
}
