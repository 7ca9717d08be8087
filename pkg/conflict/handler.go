package conflict

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type Handler struct {
	service Service
}

type CheckRequest struct {
	Event                  event.EventDTO `json:"event"`
	SharedParticipantsOnly bool           `json:"sharedParticipantsOnly"`
}

type CheckResponse struct {
	HasConflicts bool                       `json:"hasConflicts"`
	Conflicts    []recurrence.OccurrenceDTO `json:"conflicts"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	candidate := event.FromDTO(req.Event)
	if candidate.StartsAt.IsZero() {
		rest.WriteError(w, http.StatusBadRequest, "Missing start", "'event.startsAt' is required")
		return
	}
	if candidate.EndsAt != nil && candidate.EndsAt.Before(candidate.StartsAt) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid end", "'event.endsAt' must not be before 'event.startsAt'")
		return
	}

	conflicts, err := h.service.Check(r.Context(), candidate, req.SharedParticipantsOnly)
	if err != nil {
		log.Errorf("conflict check failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to check conflicts", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, CheckResponse{
		HasConflicts: len(conflicts) > 0,
		Conflicts:    recurrence.ToDTOs(conflicts),
	})
}
