package cell

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type Handler struct {
	service *Service
}

type PlanRequest struct {
	Date            string                    `json:"date"`
	AvailableHeight float64                   `json:"availableHeight"`
	Selected        *recurrence.OccurrenceDTO `json:"selected"`
}

type RowDTO struct {
	Id               string                     `json:"id"`
	Kind             string                     `json:"kind"`
	Title            string                     `json:"title"`
	Occurrence       recurrence.OccurrenceDTO   `json:"occurrence"`
	Members          []recurrence.OccurrenceDTO `json:"members,omitempty"`
	People           int                        `json:"people,omitempty"`
	Selected         bool                       `json:"selected"`
	InSelectedSeries bool                       `json:"inSelectedSeries"`
}

type PlanResponse struct {
	Date      string   `json:"date"`
	Rows      []RowDTO `json:"rows"`
	Remaining int      `json:"remaining"`
	MoreLabel string   `json:"moreLabel,omitempty"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	date, err := grid.ParseDate(req.Date, h.service.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in yyyy-mm-dd format")
		return
	}
	var selected *recurrence.Occurrence
	if req.Selected != nil {
		o := recurrence.FromDTO(*req.Selected)
		selected = &o
	}

	plan, err := h.service.Plan(r.Context(), date, req.AvailableHeight, selected)
	if err != nil {
		log.Errorf("failed to plan day cell: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to plan day cell", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, planToDTO(plan))
}

func planToDTO(plan DayPlan) PlanResponse {
	rows := make([]RowDTO, 0, len(plan.Rows))
	for _, row := range plan.Rows {
		rows = append(rows, RowToDTO(row))
	}
	return PlanResponse{
		Date:      grid.DateKey(plan.Day.Date),
		Rows:      rows,
		Remaining: plan.Remaining,
		MoreLabel: plan.MoreLabel(),
	}
}

func RowToDTO(row Row) RowDTO {
	dto := RowDTO{
		Id:               row.Item.ID(),
		Title:            row.Item.Title(),
		Selected:         row.Highlight.Selected,
		InSelectedSeries: row.Highlight.InSelectedSeries,
	}
	switch it := row.Item.(type) {
	case Single:
		dto.Kind = "single"
		dto.Occurrence = recurrence.ToDTO(it.Occurrence)
	case GroupedTimeOff:
		dto.Kind = "grouped-time-off"
		dto.Occurrence = recurrence.ToDTO(it.Representative)
		dto.Members = recurrence.ToDTOs(it.Members)
		dto.People = it.People
	}
	return dto
}
