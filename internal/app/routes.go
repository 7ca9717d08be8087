package app

import (
	"github.com/gorilla/mux"
	"github.com/teamcal/teamcal/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// People
	r.HandleFunc("/api/people", deps.PersonHandler.ListPeople).Methods("GET")
	r.HandleFunc("/api/people", deps.PersonHandler.CreatePerson).Methods("POST")
	r.HandleFunc("/api/people/{personId}", deps.PersonHandler.DeletePerson).Methods("DELETE")

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/draft", deps.EventHandler.CreateFromDraft).Methods("POST")
	r.HandleFunc("/api/events/import", deps.IcsHandler.ImportEvents).Methods("POST")
	r.HandleFunc("/api/events/conflicts", deps.ConflictHandler.Check).Methods("POST")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Grid
	r.HandleFunc("/api/grid", deps.GridHandler.GetMetadata).Methods("GET")
	r.HandleFunc("/api/grid/days", deps.GridHandler.GetDays).Methods("GET")
	r.HandleFunc("/api/grid/inspector", deps.GridHandler.GetInspector).Methods("GET")

	// Day cells
	r.HandleFunc("/api/cells/plan", deps.CellHandler.Plan).Methods("POST")
	r.HandleFunc("/api/cells/hover-intent", deps.HoverSlotHandler.ResolveIntent).Methods("POST")

	// Viewport sessions
	r.HandleFunc("/api/viewport", deps.ViewportHandler.CreateSession).Methods("POST")
	r.HandleFunc("/api/viewport/{sessionId}", deps.ViewportHandler.GetSession).Methods("GET")
	r.HandleFunc("/api/viewport/{sessionId}", deps.ViewportHandler.DeleteSession).Methods("DELETE")
	r.HandleFunc("/api/viewport/{sessionId}/visible", deps.ViewportHandler.EnsureVisible).Methods("POST")
	r.HandleFunc("/api/viewport/{sessionId}/expand", deps.ViewportHandler.Expand).Methods("POST")
	r.HandleFunc("/api/viewport/{sessionId}/rows", deps.ViewportHandler.ObserveRows).Methods("POST")

	// ICS
	r.HandleFunc("/api/calendar.ics", deps.IcsHandler.ExportCalendar).Methods("GET")
	r.HandleFunc("/api/ics/feeds", deps.IcsHandler.GetFeeds).Methods("GET")

	// Google Calendar integration
	r.HandleFunc("/api/integrations/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth", deps.GoogleAuth.OAuthStatus).Methods("GET")
	r.HandleFunc("/api/integrations/google/auth", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/integrations/google/calendars", deps.GoogleHandler.ListCalendars).Methods("GET")
	r.HandleFunc("/api/integrations/google/sync", deps.GoogleHandler.Sync).Methods("POST")
}
