package creator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingnexus/platform-sdk/transport"
)

func newCreatorServer(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /skill-creator-agent/session/create", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(Session{
			SessionID:        "sess-1",
			Type:             "question",
			CurrentDimension: "core_value",
			Question:         "What problem does this skill solve?",
			Progress:         Progress{Current: 1, Total: 6, Percentage: 16.7},
		})
	})
	mux.HandleFunc("POST /skill-creator-agent/chat", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["session_id"] != "sess-1" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"unknown session"}`))
			return
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Type:             TypeNextDimension,
			CurrentDimension: "usage_scenario",
			Question:         "When would someone reach for it?",
			Progress:         &Progress{Current: 2, Total: 6, Percentage: 33.3},
		})
	})
	mux.HandleFunc("POST /skill-creator-agent/session/end", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		json.NewEncoder(w).Encode(ChatResponse{
			Type: TypeSummary,
			SkillMetadata: &SkillMetadata{
				SkillName: "summarizer",
				Category:  "internal",
			},
		})
	})
	mux.HandleFunc("GET /skill-creator-agent/session/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Status{SessionID: r.PathValue("id"), CurrentDimension: "core_value"})
	})
	mux.HandleFunc("POST /skill-creator-agent/session/{id}/save-skill", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SaveResult{SkillID: 9, SkillName: "summarizer", Message: "saved"})
	})
	return mux
}

func TestGuidedSessionFlow(t *testing.T) {
	srv := httptest.NewServer(newCreatorServer(t))
	defer srv.Close()
	c := NewClient(transport.New(transport.Config{BaseURL: srv.URL}))
	ctx := context.Background()

	sess, err := c.CreateSession(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.SessionID)
	assert.Equal(t, 1, sess.Progress.Current)

	turn, err := c.Chat(ctx, sess.SessionID, "it summarizes long documents")
	require.NoError(t, err)
	assert.Equal(t, TypeNextDimension, turn.Type)
	require.NotNil(t, turn.Progress)
	assert.Equal(t, 2, turn.Progress.Current)

	status, err := c.Status(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", status.SessionID)

	final, err := c.EndSession(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, TypeSummary, final.Type)
	require.NotNil(t, final.SkillMetadata)
	assert.Equal(t, "summarizer", final.SkillMetadata.SkillName)

	saved, err := c.SaveSkill(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), saved.SkillID)
}

func TestChatUnknownSession(t *testing.T) {
	srv := httptest.NewServer(newCreatorServer(t))
	defer srv.Close()
	c := NewClient(transport.New(transport.Config{BaseURL: srv.URL}))

	_, err := c.Chat(context.Background(), "sess-missing", "hello")
	require.Error(t, err)
	apiErr, ok := transport.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.Status)
}
