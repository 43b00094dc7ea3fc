package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"sparkmatch/internal/cache"
	"sparkmatch/internal/matchmaking"
)

// MatchmakingHandler exposes manual control over the live round machine.
// The phase timer normally drives rounds; these endpoints exist for
// administrative control and for recovery after a restart mid-event.
type MatchmakingHandler struct {
	coordinator *matchmaking.Coordinator
	presence    cache.PresenceCache
}

// NewMatchmakingHandler creates a new matchmaking handler
func NewMatchmakingHandler(coordinator *matchmaking.Coordinator, presence cache.PresenceCache) *MatchmakingHandler {
	return &MatchmakingHandler{
		coordinator: coordinator,
		presence:    presence,
	}
}

// StartRound handles POST /v1/events/{code}/rounds/start
func (h *MatchmakingHandler) StartRound(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	started := h.coordinator.StartRound(code)
	if started == nil {
		writeError(w, http.StatusNotFound, "no live session for event")
		return
	}

	writeJSON(w, http.StatusOK, started)
}

// AdvancePhase handles POST /v1/events/{code}/phase/advance
func (h *MatchmakingHandler) AdvancePhase(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	changed := h.coordinator.AdvancePhase(code)
	if changed == nil {
		writeError(w, http.StatusConflict, "no round to advance")
		return
	}

	writeJSON(w, http.StatusOK, changed)
}

// Participants handles GET /v1/events/{code}/participants. The live
// session is authoritative; when none is in memory (before the first
// join, or after a restart) the Redis presence set answers instead.
func (h *MatchmakingHandler) Participants(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	participants := h.coordinator.Participants(code)
	if participants == nil {
		count, err := h.presence.Count(r.Context(), code)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		members, err := h.presence.Members(r.Context(), code)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Printf("No live session for event %s, answering roster from presence", code)

		participants = make([]matchmaking.ParticipantInfo, 0, len(members))
		for _, id := range members {
			participants = append(participants, matchmaking.ParticipantInfo{
				UserID:   id,
				IsOnline: true,
			})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"count":        count,
			"participants": participants,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(participants),
		"participants": participants,
	})
}
