package agents

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingnexus/platform-sdk/errhandle"
	"github.com/lingnexus/platform-sdk/transport"
)

func newAgentServer() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /agents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Agent{
			{ID: 1, Name: "researcher", ModelName: "gpt-4", IsActive: true, Skills: []SkillInfo{{ID: 9, Name: "search", Category: "external"}}},
		})
	})
	mux.HandleFunc("POST /agents", func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(Agent{ID: 2, Name: req.Name, ModelName: req.ModelName, IsActive: true})
	})
	mux.HandleFunc("PUT /agents/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req UpdateRequest
		json.NewDecoder(r.Body).Decode(&req)
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		a := Agent{ID: id, Name: "researcher", ModelName: "gpt-4", IsActive: true}
		if req.Name != nil {
			a.Name = *req.Name
		}
		json.NewEncoder(w).Encode(a)
	})
	mux.HandleFunc("DELETE /agents/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /agents/{id}/execute", func(w http.ResponseWriter, r *http.Request) {
		var req ExecuteRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(ExecuteResponse{
			ExecutionID:   55,
			Status:        "completed",
			OutputMessage: "echo: " + req.Message,
			TokensUsed:    12,
		})
	})
	mux.HandleFunc("GET /agents/{id}/executions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Execution{
			{ID: 55, AgentID: 1, InputMessage: "hi", Status: "completed"},
		})
	})
	mux.HandleFunc("GET /agents/{id}/executions/{execID}", func(w http.ResponseWriter, r *http.Request) {
		execID, _ := strconv.ParseInt(r.PathValue("execID"), 10, 64)
		json.NewEncoder(w).Encode(Execution{ID: execID, AgentID: 1, InputMessage: "hi", Status: "completed"})
	})
	return mux
}

func newTestStore(t *testing.T, srv *httptest.Server) *Store {
	t.Helper()
	client := transport.New(transport.Config{BaseURL: srv.URL})
	return NewStore(client, errhandle.New())
}

func TestAgentCRUD(t *testing.T) {
	srv := httptest.NewServer(newAgentServer())
	defer srv.Close()
	s := newTestStore(t, srv)

	agents, err := s.List(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, len(agents))
	assert.Equal(t, "researcher", agents[0].Name)

	created, err := s.Create(context.Background(), CreateRequest{Name: "writer", ModelName: "gpt-4"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, created.EntityID(), s.Items()[0].EntityID(), "new agent is prepended")

	name := "renamed"
	updated, err := s.Update(context.Background(), 1, UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)

	require.NoError(t, s.Delete(context.Background(), 2))
	assert.Equal(t, 1, s.Len())
}

func TestExecuteRecordsLastExecution(t *testing.T) {
	srv := httptest.NewServer(newAgentServer())
	defer srv.Close()
	s := newTestStore(t, srv)

	_, ok := s.LastExecution()
	assert.False(t, ok)

	resp, err := s.Execute(context.Background(), 1, "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", resp.OutputMessage)

	last, ok := s.LastExecution()
	require.True(t, ok)
	assert.Equal(t, int64(55), last.ExecutionID)

	s.Reset()
	_, ok = s.LastExecution()
	assert.False(t, ok, "reset drops execution state")
}

func TestExecutionHistory(t *testing.T) {
	srv := httptest.NewServer(newAgentServer())
	defer srv.Close()
	s := newTestStore(t, srv)

	execs, err := s.FetchExecutions(context.Background(), 1, ExecutionListParams{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, len(execs))
	assert.Equal(t, execs, s.Executions())

	one, err := s.FetchExecution(context.Background(), 1, 55)
	require.NoError(t, err)
	assert.Equal(t, int64(55), one.ID)
}
