package hover_slot

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/rest"
	"github.com/teamcal/teamcal/pkg/cell"
	"github.com/teamcal/teamcal/pkg/grid"
)

// DayItems loads a day together with its grouped rows.
type DayItems interface {
	Location() *time.Location
	Items(ctx context.Context, date time.Time) (grid.Day, []cell.Item, error)
}

type Handler struct {
	days DayItems
	pad  float64
}

type PointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type RectDTO struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type RowDTO struct {
	RectDTO
	OccurrenceId string `json:"occurrenceId"`
}

type IntentRequest struct {
	Date    string   `json:"date"`
	Pointer PointDTO `json:"pointer"`
	Content RectDTO  `json:"content"`
	Rows    []RowDTO `json:"rows"`
}

type SlotDTO struct {
	SlotIndex            int     `json:"slotIndex"`
	Start                float64 `json:"start"`
	End                  float64 `json:"end"`
	VerticalCenter       float64 `json:"verticalCenter"`
	Width                float64 `json:"width"`
	Ratio                float64 `json:"ratio"`
	PreviousOccurrenceId string  `json:"previousOccurrenceId,omitempty"`
	NextOccurrenceId     string  `json:"nextOccurrenceId,omitempty"`
}

type IntentDTO struct {
	Day                  string    `json:"day"`
	Start                time.Time `json:"start"`
	End                  time.Time `json:"end"`
	PreviousOccurrenceId string    `json:"previousOccurrenceId,omitempty"`
	NextOccurrenceId     string    `json:"nextOccurrenceId,omitempty"`
}

type IntentResponse struct {
	Found  bool       `json:"found"`
	Slot   *SlotDTO   `json:"slot,omitempty"`
	Intent *IntentDTO `json:"intent,omitempty"`
}

func NewHandler(days DayItems, pad float64) *Handler {
	if pad <= 0 {
		pad = DefaultPad
	}
	return &Handler{days: days, pad: pad}
}

func (h *Handler) ResolveIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	date, err := grid.ParseDate(req.Date, h.days.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in yyyy-mm-dd format")
		return
	}

	day, items, err := h.days.Items(r.Context(), date)
	if err != nil {
		log.Errorf("failed to load day for hover intent: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load day", err.Error())
		return
	}

	rows := make([]Row, 0, len(req.Rows))
	for i, row := range req.Rows {
		id := row.OccurrenceId
		if id == "" && i < len(items) {
			id = items[i].ID()
		}
		rows = append(rows, Row{Bounds: rectFromDTO(row.RectDTO), OccurrenceID: id})
	}

	slot, ok := Locate(Point{X: req.Pointer.X, Y: req.Pointer.Y}, rectFromDTO(req.Content), rows, h.pad)
	if !ok {
		rest.WriteJSON(w, http.StatusOK, IntentResponse{Found: false})
		return
	}
	intent := Intent(slot, day)
	rest.WriteJSON(w, http.StatusOK, IntentResponse{
		Found:  true,
		Slot:   slotToDTO(slot),
		Intent: intentToDTO(intent),
	})
}

func rectFromDTO(r RectDTO) Rect {
	return Rect{Top: r.Top, Left: r.Left, Width: r.Width, Height: r.Height}
}

func slotToDTO(s Slot) *SlotDTO {
	return &SlotDTO{
		SlotIndex:            s.Index,
		Start:                s.Start,
		End:                  s.End,
		VerticalCenter:       s.Center,
		Width:                s.Width,
		Ratio:                s.Ratio,
		PreviousOccurrenceId: s.PreviousOccurrenceID,
		NextOccurrenceId:     s.NextOccurrenceID,
	}
}

func intentToDTO(i CreationIntent) *IntentDTO {
	return &IntentDTO{
		Day:                  grid.DateKey(i.Day),
		Start:                i.Start,
		End:                  i.End,
		PreviousOccurrenceId: i.PreviousOccurrenceID,
		NextOccurrenceId:     i.NextOccurrenceID,
	}
}
