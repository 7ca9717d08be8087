package hover_slot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcal/teamcal/pkg/cell"
	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type dayItemsStub struct {
	day grid.Day
	err error
}

func (s dayItemsStub) Location() *time.Location { return time.UTC }

func (s dayItemsStub) Items(ctx context.Context, date time.Time) (grid.Day, []cell.Item, error) {
	if s.err != nil {
		return grid.Day{}, nil, s.err
	}
	return s.day, cell.Group(date, s.day.Occurrences), nil
}

func postIntent(t *testing.T, handler *Handler, body string) (*httptest.ResponseRecorder, IntentResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	handler.ResolveIntent(w, httptest.NewRequest(http.MethodPost, "/api/hover-intent", bytes.NewBufferString(body)))
	var response IntentResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	}
	return w, response
}

func TestHandler_ResolveIntent(t *testing.T) {
	day := grid.Day{Date: monday, Occurrences: []recurrence.Occurrence{meeting("standup", clock(9, 0), clock(9, 20))}}
	handler := NewHandler(dayItemsStub{day: day}, 0)

	t.Run("should propose time after the row above the pointer", func(t *testing.T) {
		// given
		body, err := json.Marshal(IntentRequest{
			Date:    "2024-03-04",
			Pointer: PointDTO{X: 50, Y: 130},
			Content: RectDTO{Top: 100, Left: 10, Width: 200, Height: 120},
			Rows:    []RowDTO{{RectDTO: RectDTO{Top: 100, Left: 10, Width: 180, Height: 20}}},
		})
		require.NoError(t, err)

		// when
		w, response := postIntent(t, handler, string(body))

		// then
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, response.Found)
		require.NotNil(t, response.Slot)
		assert.Equal(t, 1, response.Slot.SlotIndex)
		assert.Equal(t, "standup", response.Slot.PreviousOccurrenceId)
		require.NotNil(t, response.Intent)
		assert.Equal(t, "2024-03-04", response.Intent.Day)
		assert.True(t, clock(9, 15).Equal(response.Intent.Start))
		assert.True(t, clock(9, 45).Equal(response.Intent.End))
	})

	t.Run("should report no slot over an event row", func(t *testing.T) {
		body := `{"date":"2024-03-04","pointer":{"x":50,"y":110},"content":{"top":100,"left":10,"width":200,"height":120},"rows":[{"top":100,"left":10,"width":180,"height":20}]}`

		w, response := postIntent(t, handler, body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, response.Found)
		assert.Nil(t, response.Intent)
	})
}

func TestHandler_ResolveIntent_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		days     DayItems
		body     string
		expected int
	}{
		{name: "invalid body", days: dayItemsStub{}, body: "{", expected: http.StatusBadRequest},
		{name: "invalid date", days: dayItemsStub{}, body: `{"date":"04/03/2024"}`, expected: http.StatusBadRequest},
		{name: "day lookup fails", days: dayItemsStub{err: errors.New("db down")}, body: `{"date":"2024-03-04"}`, expected: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := postIntent(t, NewHandler(tc.days, DefaultPad), tc.body)

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}
