package viewport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
)

type Handler struct {
	store *SessionStore
}

type WeekRangeDTO struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type StateDTO struct {
	SessionId    string       `json:"sessionId"`
	Range        WeekRangeDTO `json:"range"`
	TotalWeeks   int          `json:"totalWeeks"`
	MonthLabel   string       `json:"monthLabel"`
	HasMoreUp    bool         `json:"hasMoreUp"`
	HasMoreDown  bool         `json:"hasMoreDown"`
	RenderWindow WeekRangeDTO `json:"renderWindow"`
}

type ensureRequest struct {
	WeekIndex *int   `json:"weekIndex"`
	Date      string `json:"date"`
}

type expandRequest struct {
	Direction string `json:"direction"`
}

type RowDTO struct {
	WeekIndex      int     `json:"weekIndex"`
	Date           string  `json:"date"`
	IsIntersecting bool    `json:"isIntersecting"`
	RelativeTop    float64 `json:"relativeTop"`
}

type monthLabelResponse struct {
	MonthLabel string `json:"monthLabel"`
}

func NewHandler(store *SessionStore) *Handler {
	return &Handler{store: store}
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, controller := h.store.Create()
	rest.WriteJSON(w, http.StatusCreated, stateToDTO(id, controller.State()))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := h.controller(w, r)
	if !ok {
		return
	}
	rest.WriteJSON(w, http.StatusOK, stateToDTO(id, controller.State()))
}

func (h *Handler) EnsureVisible(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req ensureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	var weekIndex int
	switch {
	case req.WeekIndex != nil:
		weekIndex = *req.WeekIndex
	case req.Date != "":
		date, err := h.store.ParseDate(req.Date)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in yyyy-mm-dd format")
			return
		}
		weekIndex = h.store.WeekIndexFor(date)
	default:
		rest.WriteError(w, http.StatusBadRequest, "Missing week", "either 'weekIndex' or 'date' is required")
		return
	}

	controller.EnsureVisible(weekIndex)
	rest.WriteJSON(w, http.StatusOK, stateToDTO(id, controller.State()))
}

func (h *Handler) Expand(w http.ResponseWriter, r *http.Request) {
	id, controller, ok := h.controller(w, r)
	if !ok {
		return
	}
	var req expandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	direction := Direction(req.Direction)
	if !direction.Valid() {
		rest.WriteError(w, http.StatusBadRequest, "Invalid direction", "direction must be 'up' or 'down'")
		return
	}

	controller.Expand(direction)
	rest.WriteJSON(w, http.StatusOK, stateToDTO(id, controller.State()))
}

func (h *Handler) ObserveRows(w http.ResponseWriter, r *http.Request) {
	_, controller, ok := h.controller(w, r)
	if !ok {
		return
	}
	var rows []RowDTO
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	observations := make([]RowObservation, 0, len(rows))
	for _, row := range rows {
		date, err := h.store.ParseDate(row.Date)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in yyyy-mm-dd format")
			return
		}
		observations = append(observations, RowObservation{
			WeekIndex:      row.WeekIndex,
			Date:           date,
			IsIntersecting: row.IsIntersecting,
			RelativeTop:    row.RelativeTop,
		})
	}

	label := controller.MonthLabel()
	for _, obs := range observations {
		label = controller.ObserveRow(obs)
	}
	rest.WriteJSON(w, http.StatusOK, monthLabelResponse{MonthLabel: label})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if err := h.store.Delete(id); err != nil {
		rest.WriteError(w, http.StatusNotFound, "Viewport session not found", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (string, *Controller, bool) {
	id := mux.Vars(r)["sessionId"]
	controller, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			log.Debugf("viewport session %s not found", id)
			rest.WriteError(w, http.StatusNotFound, "Viewport session not found", "")
			return "", nil, false
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to read viewport session", err.Error())
		return "", nil, false
	}
	return id, controller, true
}

func stateToDTO(id string, state State) StateDTO {
	return StateDTO{
		SessionId:    id,
		Range:        WeekRangeDTO{Start: state.Range.Start, End: state.Range.End},
		TotalWeeks:   state.TotalWeeks,
		MonthLabel:   state.MonthLabel,
		HasMoreUp:    state.HasMoreUp,
		HasMoreDown:  state.HasMoreDown,
		RenderWindow: WeekRangeDTO{Start: state.RenderWindow.Start, End: state.RenderWindow.End},
	}
}
