package person

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
	"github.com/teamcal/teamcal/pkg/event"
)

type Handler struct {
	service Service
}

type PersonDTO struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	Team  string `json:"team,omitempty"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.service.ListPeople(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]PersonDTO, 0, len(people))
	for _, p := range people {
		dtos = append(dtos, personToDTO(p))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var dto PersonDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	created, err := h.service.CreatePerson(r.Context(), Person{Id: dto.Id, Name: dto.Name, Role: dto.Role, Email: dto.Email, Team: dto.Team})
	if err != nil {
		var validationErr *event.ValidationError
		switch {
		case errors.As(err, &validationErr):
			rest.WriteError(w, http.StatusBadRequest, "Invalid person", validationErr.Problems[0])
		case errors.Is(err, ErrDuplicateEmail):
			rest.WriteError(w, http.StatusConflict, "Email already in use", dto.Email)
		default:
			log.Errorf("failed to create person: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	rest.WriteJSON(w, http.StatusCreated, personToDTO(created))
}

func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeletePerson(r.Context(), mux.Vars(r)["personId"])
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Person not found", "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func personToDTO(p Person) PersonDTO {
	return PersonDTO{Id: p.Id, Name: p.Name, Role: p.Role, Email: p.Email, Team: p.Team}
}
