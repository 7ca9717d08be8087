package google

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
)

type CalendarItemDto struct {
	Id      string `json:"id"`
	Summary string `json:"summary"`
}

type SyncResultDto struct {
	Synced int `json:"synced"`
}

type Handler struct {
	service Service
	syncer  *Syncer
}

func NewHandler(s Service, syncer *Syncer) *Handler {
	return &Handler{service: s, syncer: syncer}
}

func (h *Handler) ListCalendars(w http.ResponseWriter, r *http.Request) {
	calendars, err := h.service.ListCalendars(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			rest.WriteError(w, http.StatusForbidden, "Google Calendar is not connected", err.Error())
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to list calendars", err.Error())
		return
	}

	calendarItems := make([]CalendarItemDto, 0, len(calendars))
	for _, c := range calendars {
		calendarItems = append(calendarItems, toCalendarItemDto(c))
	}
	rest.WriteJSON(w, http.StatusOK, calendarItems)
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	count, err := h.syncer.Sync(r.Context())
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			rest.WriteError(w, http.StatusForbidden, "Google Calendar is not connected", err.Error())
			return
		}
		log.Errorf("google sync failed: %v", err)
		rest.WriteError(w, http.StatusBadGateway, "Failed to sync Google Calendar", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, SyncResultDto{Synced: count})
}

func toCalendarItemDto(ci CalendarItem) CalendarItemDto {
	return CalendarItemDto{
		Id:      ci.ID,
		Summary: ci.Summary,
	}
}
