package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/stanzixinwan/del-game/internal/domain"
	"github.com/stanzixinwan/del-game/internal/engine"
)

// WorldHandler serves the read-only observer endpoints. It only ever reads
// immutable snapshots; a renderer polling these routes can never mutate the
// simulation.
type WorldHandler struct {
	world *engine.World
}

func NewWorldHandler(world *engine.World) *WorldHandler {
	return &WorldHandler{world: world}
}

type stateResponse struct {
	Phase   engine.Phase            `json:"phase"`
	Time    float64                 `json:"time"`
	Turn    int                     `json:"turn"`
	Result  engine.Result           `json:"result,omitempty"`
	Events  int                     `json:"events"`
	Meeting *engine.MeetingSnapshot `json:"meeting,omitempty"`
}

// State returns world-level state: phase, sim time, turn, result, meeting
// progress.
func (h *WorldHandler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.world.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		Phase:   snap.Phase,
		Time:    snap.Time,
		Turn:    snap.Turn,
		Result:  snap.Result,
		Events:  snap.Events,
		Meeting: snap.Meeting,
	})
}

type agentsResponse struct {
	Agents []domain.AgentSnapshot `json:"agents"`
}

// Agents returns every agent's snapshot.
func (h *WorldHandler) Agents(w http.ResponseWriter, r *http.Request) {
	snap := h.world.Snapshot()
	writeJSON(w, http.StatusOK, agentsResponse{Agents: snap.Agents})
}

// AgentByID returns one agent's snapshot, including its knowledge-base view.
func (h *WorldHandler) AgentByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok := h.world.AgentSnapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type eventsResponse struct {
	Since  int             `json:"since"`
	Events []*domain.Event `json:"events"`
}

// Events returns the event log starting at the ?since= index, so a poller
// can resume where it left off.
func (h *WorldHandler) Events(w http.ResponseWriter, r *http.Request) {
	since := 0
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid since parameter")
			return
		}
		since = n
	}
	writeJSON(w, http.StatusOK, eventsResponse{
		Since:  since,
		Events: h.world.EventsSince(since),
	})
}
