package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stanzixinwan/del-game/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *engine.World) {
	t.Helper()
	world, err := engine.NewWorld(engine.Options{NumAgents: 5, NumBad: 1, Seed: 1})
	require.NoError(t, err)

	h := NewWorldHandler(world)
	r := chi.NewRouter()
	r.Get("/v1/state", h.State)
	r.Get("/v1/agents", h.Agents)
	r.Get("/v1/agents/{id}", h.AgentByID)
	r.Get("/v1/events", h.Events)
	return r, world
}

func TestStateEndpoint(t *testing.T) {
	r, world := newTestRouter(t)
	for i := 0; i < 20; i++ {
		world.Advance(1.0)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, []any{"playing", "meeting"}, body["phase"])
	// The game may have ended mid-run, freezing the turn counter.
	turn, ok := body["turn"].(float64)
	require.True(t, ok)
	assert.Greater(t, turn, float64(0))
	assert.LessOrEqual(t, turn, float64(20))
}

func TestAgentsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agents", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Agents []struct {
			ID        string `json:"id"`
			Life      string `json:"life"`
			Knowledge struct {
				CandidateWorlds int `json:"candidate_worlds"`
			} `json:"knowledge"`
		} `json:"agents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Agents, 5)
	assert.Equal(t, "npc0", body.Agents[0].ID)
	for _, a := range body.Agents {
		assert.Equal(t, "alive", a.Life)
		assert.Greater(t, a.Knowledge.CandidateWorlds, 0)
	}
}

func TestAgentByIDEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agents/npc2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "npc2", body["id"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agents/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventsEndpoint(t *testing.T) {
	r, world := newTestRouter(t)
	for i := 0; i < 30; i++ {
		world.Advance(1.0)
	}
	total := world.Snapshot().Events

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body eventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Events, total)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events?since=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events?since=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
