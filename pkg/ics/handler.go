package ics

import (
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
)

const (
	uploadFeedID  = "upload"
	maxUploadSize = 5 << 20
)

type Handler struct {
	service *Service
}

type ImportResponse struct {
	FeedId   string `json:"feedId"`
	Imported int    `json:"imported"`
}

type FeedStateDTO struct {
	FeedId       string     `json:"feedId"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	EventCount   int        `json:"eventCount"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.Export(r.Context())
	if err != nil {
		log.Errorf("failed to export calendar: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to export calendar", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="teamcal.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write calendar: %v", err)
	}
}

func (h *Handler) ImportEvents(w http.ResponseWriter, r *http.Request) {
	feedID := r.URL.Query().Get("feedId")
	if feedID == "" {
		feedID = uploadFeedID
	}

	count, err := h.service.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxUploadSize), feedID)
	if errors.Is(err, ErrInvalidCalendar) {
		log.Warnf("rejected uploaded calendar: %v", err)
		rest.WriteError(w, http.StatusBadRequest, "Invalid calendar file", err.Error())
		return
	}
	if err != nil {
		log.Errorf("failed to import uploaded calendar: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to import events", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, ImportResponse{FeedId: feedID, Imported: count})
}

func (h *Handler) GetFeeds(w http.ResponseWriter, r *http.Request) {
	states, err := h.service.Feeds(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to get feeds", err.Error())
		return
	}
	result := make([]FeedStateDTO, 0, len(states))
	for _, s := range states {
		result = append(result, FeedStateDTO{FeedId: s.FeedId, LastSyncedAt: s.LastSyncedAt, EventCount: s.EventCount})
	}
	rest.WriteJSON(w, http.StatusOK, result)
}
