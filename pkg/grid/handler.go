package grid

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type Handler struct {
	service Service
}

type MetadataDTO struct {
	BaseDate       string `json:"baseDate"`
	Today          string `json:"today"`
	TotalWeeks     int    `json:"totalWeeks"`
	TodayWeekIndex int    `json:"todayWeekIndex"`
	WeekStart      int    `json:"weekStart"`
	Timezone       string `json:"timezone"`
}

type DayDTO struct {
	Date         string                     `json:"date"`
	DayIndex     int                        `json:"dayIndex"`
	WeekIndex    int                        `json:"weekIndex"`
	IsToday      bool                       `json:"isToday"`
	IsMonthStart bool                       `json:"isMonthStart"`
	IsSelected   bool                       `json:"isSelected"`
	IsDimmed     bool                       `json:"isDimmed"`
	Occurrences  []recurrence.OccurrenceDTO `json:"occurrences"`
}

type SectionDTO struct {
	Date        string                     `json:"date"`
	Occurrences []recurrence.OccurrenceDTO `json:"occurrences"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, metadataToDTO(h.service.Metadata()))
}

func (h *Handler) GetDays(w http.ResponseWriter, r *http.Request) {
	meta := h.service.Metadata()
	query := r.URL.Query()

	startWeek, err := intParam(query.Get("startWeek"), 0)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid startWeek", err.Error())
		return
	}
	weekCount, err := intParam(query.Get("weekCount"), meta.TotalWeeks-startWeek)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid weekCount", err.Error())
		return
	}
	selected, err := ParseSelection(query.Get("selected"), meta.Location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid selected dates", err.Error())
		return
	}

	days, err := h.service.Days(r.Context(), startWeek, weekCount, selected)
	if err != nil {
		log.Errorf("failed to build grid days: %v", err)
		writeError(w, err)
		return
	}
	dtos := make([]DayDTO, 0, len(days))
	for _, day := range days {
		dtos = append(dtos, DayToDTO(day))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetInspector(w http.ResponseWriter, r *http.Request) {
	meta := h.service.Metadata()
	selected, err := ParseSelection(r.URL.Query().Get("selected"), meta.Location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid selected dates", err.Error())
		return
	}
	sections, err := h.service.Inspector(r.Context(), selected)
	if err != nil {
		log.Errorf("failed to build inspector: %v", err)
		writeError(w, err)
		return
	}
	dtos := make([]SectionDTO, 0, len(sections))
	for _, section := range sections {
		dtos = append(dtos, SectionDTO{
			Date:        DateKey(section.Date),
			Occurrences: recurrence.ToDTOs(section.Occurrences),
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// ParseSelection reads a comma separated list of yyyy-mm-dd dates.
func ParseSelection(value string, loc *time.Location) ([]time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var dates []time.Time
	for _, part := range strings.Split(value, ",") {
		date, err := ParseDate(strings.TrimSpace(part), loc)
		if err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	return dates, nil
}

func DayToDTO(day Day) DayDTO {
	return DayDTO{
		Date:         DateKey(day.Date),
		DayIndex:     day.DayIndex,
		WeekIndex:    day.WeekIndex,
		IsToday:      day.IsToday,
		IsMonthStart: day.IsMonthStart,
		IsSelected:   day.IsSelected,
		IsDimmed:     day.IsDimmed,
		Occurrences:  recurrence.ToDTOs(day.Occurrences),
	}
}

func metadataToDTO(meta Metadata) MetadataDTO {
	return MetadataDTO{
		BaseDate:       DateKey(meta.BaseDate),
		Today:          DateKey(meta.Today),
		TotalWeeks:     meta.TotalWeeks,
		TodayWeekIndex: meta.TodayWeekIndex,
		WeekStart:      int(meta.WeekStart),
		Timezone:       meta.Location.String(),
	}
}

func intParam(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func writeError(w http.ResponseWriter, err error) {
	if event.IsValidationError(err) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid range", err.Error())
		return
	}
	rest.WriteError(w, http.StatusInternalServerError, "Failed to build calendar", err.Error())
}
