package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
)

type Handler struct {
	service Service
}

type ParticipantDTO struct {
	Id       string `json:"id"`
	PersonId string `json:"personId,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

type SourceDTO struct {
	Provider   string `json:"provider"`
	CalendarId string `json:"calendarId,omitempty"`
	EventId    string `json:"eventId,omitempty"`
	FeedId     string `json:"feedId,omitempty"`
	Uid        string `json:"uid,omitempty"`
}

type EventDTO struct {
	Id             string           `json:"id"`
	Title          string           `json:"title"`
	StartsAt       time.Time        `json:"startsAt"`
	EndsAt         *time.Time       `json:"endsAt"`
	IsAllDay       bool             `json:"isAllDay"`
	Type           string           `json:"type"`
	Description    string           `json:"description,omitempty"`
	Location       string           `json:"location,omitempty"`
	TimeZone       string           `json:"timeZone,omitempty"`
	RecurrenceRule string           `json:"recurrenceRule,omitempty"`
	Owner          ParticipantDTO   `json:"owner"`
	Attendees      []ParticipantDTO `json:"attendees"`
	Source         SourceDTO        `json:"source"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type DraftDTO struct {
	Title          string `json:"title"`
	Type           string `json:"type"`
	IsAllDay       bool   `json:"isAllDay"`
	StartDate      string `json:"startDate"`
	StartTime      string `json:"startTime"`
	EndDate        string `json:"endDate"`
	EndTime        string `json:"endTime"`
	TimeZone       string `json:"timeZone"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	AttendeesInput string `json:"attendeesInput"`
	RecurrenceRule string `json:"recurrenceRule"`
	PersonId       string `json:"personId"`
}

type validationErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")

	var events []Event
	var err error
	if fromString == "" && toString == "" {
		events, err = h.service.ListEvents(r.Context())
	} else {
		from, parseErr := time.Parse(time.RFC3339, fromString)
		if parseErr != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid from (date) format", "'from' must be in RFC3339 format")
			return
		}
		to, parseErr := time.Parse(time.RFC3339, toString)
		if parseErr != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid to (date) format", "'to' must be in RFC3339 format")
			return
		}
		events, err = h.service.GetEvents(r.Context(), from, to)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, ToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.GetEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(e))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	created, err := h.service.CreateEvent(r.Context(), FromDTO(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

func (h *Handler) CreateFromDraft(w http.ResponseWriter, r *http.Request) {
	var dto DraftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	created, err := h.service.CreateFromDraft(r.Context(), Draft{
		Title:          dto.Title,
		Type:           Type(dto.Type),
		IsAllDay:       dto.IsAllDay,
		StartDate:      dto.StartDate,
		StartTime:      dto.StartTime,
		EndDate:        dto.EndDate,
		EndTime:        dto.EndTime,
		TimeZone:       dto.TimeZone,
		Location:       dto.Location,
		Description:    dto.Description,
		AttendeesInput: dto.AttendeesInput,
		RecurrenceRule: dto.RecurrenceRule,
		PersonId:       dto.PersonId,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	dto.Id = mux.Vars(r)["eventId"]

	updated, err := h.service.UpdateEvent(r.Context(), FromDTO(dto))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEvent(r.Context(), mux.Vars(r)["eventId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		rest.WriteJSON(w, http.StatusBadRequest, validationErrorResponse{
			Error:    "Invalid event",
			Problems: validationErr.Problems,
		})
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", "")
	default:
		log.Errorf("event request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func ToDTO(e Event) EventDTO {
	attendees := make([]ParticipantDTO, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		attendees = append(attendees, participantToDTO(a))
	}
	return EventDTO{
		Id:             e.Id,
		Title:          e.Title,
		StartsAt:       e.StartsAt,
		EndsAt:         e.EndsAt,
		IsAllDay:       e.IsAllDay,
		Type:           string(e.Type),
		Description:    e.Description,
		Location:       e.Location,
		TimeZone:       e.TimeZone,
		RecurrenceRule: string(e.RecurrenceRule),
		Owner:          participantToDTO(e.Owner),
		Attendees:      attendees,
		Source: SourceDTO{
			Provider:   string(e.Source.Provider),
			CalendarId: e.Source.CalendarId,
			EventId:    e.Source.EventId,
			FeedId:     e.Source.FeedId,
			Uid:        e.Source.Uid,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDTO(dto EventDTO) Event {
	var attendees []Participant
	for _, a := range dto.Attendees {
		attendees = append(attendees, dtoToParticipant(a))
	}
	return Event{
		Id:             dto.Id,
		Title:          dto.Title,
		StartsAt:       dto.StartsAt,
		EndsAt:         dto.EndsAt,
		IsAllDay:       dto.IsAllDay,
		Type:           Type(dto.Type),
		Description:    dto.Description,
		Location:       dto.Location,
		TimeZone:       dto.TimeZone,
		RecurrenceRule: Cadence(dto.RecurrenceRule),
		Owner:          dtoToParticipant(dto.Owner),
		Attendees:      attendees,
		Source: Source{
			Provider:   Provider(dto.Source.Provider),
			CalendarId: dto.Source.CalendarId,
			EventId:    dto.Source.EventId,
			FeedId:     dto.Source.FeedId,
			Uid:        dto.Source.Uid,
		},
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}
}

func participantToDTO(p Participant) ParticipantDTO {
	return ParticipantDTO{Id: p.Id, PersonId: p.PersonId, Name: p.Name, Email: p.Email, Role: string(p.Role)}
}

func dtoToParticipant(p ParticipantDTO) Participant {
	return Participant{Id: p.Id, PersonId: p.PersonId, Name: p.Name, Email: p.Email, Role: Role(p.Role)}
}
