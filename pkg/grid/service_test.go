package grid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/event"
)

type eventReaderStub struct {
	events []event.Event
	err    error
	calls  int
}

func (s *eventReaderStub) GetEvents(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	s.calls++
	return s.events, s.err
}

var calendarConfig = config.Calendar{WeekStart: 1, Timezone: "UTC", WeeksBackward: 2, WeeksForward: 4}

func setupService(events ...event.Event) (*ServiceImpl, *eventReaderStub) {
	reader := &eventReaderStub{events: events}
	clock := utils.NewMockClock(at(2024, 3, 6, 15, 0))
	return NewService(reader, clock, calendarConfig), reader
}

func TestServiceImpl_Metadata(t *testing.T) {
	service, _ := setupService()

	meta := service.Metadata()

	assert.Equal(t, at(2024, 2, 19, 0, 0), meta.BaseDate)
	assert.Equal(t, at(2024, 3, 6, 0, 0), meta.Today)
	assert.Equal(t, 6, meta.TotalWeeks)
	assert.Equal(t, 2, meta.TodayWeekIndex)
	assert.Equal(t, time.Monday, meta.WeekStart)
}

func TestServiceImpl_Days(t *testing.T) {
	t.Run("should clamp window to grid extent", func(t *testing.T) {
		service, _ := setupService()

		days, err := service.Days(context.Background(), 5, 10, nil)

		require.NoError(t, err)
		assert.Len(t, days, 7)
		assert.Equal(t, 5, days[0].WeekIndex)
	})

	t.Run("should mark today and selection", func(t *testing.T) {
		service, _ := setupService(timedEvent("event-1", at(2024, 3, 6, 10, 0), time.Hour))

		days, err := service.Days(context.Background(), 2, 1, []time.Time{at(2024, 3, 6, 0, 0)})

		require.NoError(t, err)
		require.Len(t, days, 7)
		assert.True(t, days[2].IsToday)
		assert.True(t, days[2].IsSelected)
		assert.True(t, days[0].IsDimmed)
		assert.Equal(t, []string{"event-1"}, occurrenceIds(days[2]))
	})

	t.Run("should wrap reader errors", func(t *testing.T) {
		service, reader := setupService()
		reader.err = errors.New("connection refused")

		_, err := service.Days(context.Background(), 0, 1, nil)

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestServiceImpl_Day(t *testing.T) {
	service, _ := setupService(timedEvent("event-1", at(2024, 4, 20, 10, 0), time.Hour))

	day, err := service.Day(context.Background(), at(2024, 4, 20, 18, 0))

	require.NoError(t, err)
	assert.Equal(t, at(2024, 4, 20, 0, 0), day.Date)
	assert.Equal(t, []string{"event-1"}, occurrenceIds(day))
}

func TestServiceImpl_Inspector(t *testing.T) {
	weekly := timedEvent("sync", at(2024, 2, 19, 9, 0), time.Hour)
	weekly.RecurrenceRule = event.Weekly
	service, _ := setupService(weekly)

	sections, err := service.Inspector(context.Background(), []time.Time{at(2024, 3, 4, 0, 0)})

	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "sync-recurrence-2", sections[0].Occurrences[0].Id)
}

func TestHandler_GetDays(t *testing.T) {
	t.Run("should return requested weeks", func(t *testing.T) {
		// given
		service, _ := setupService(timedEvent("event-1", at(2024, 3, 6, 10, 0), time.Hour))
		handler := NewHandler(service)
		w := httptest.NewRecorder()

		// when
		handler.GetDays(w, httptest.NewRequest(http.MethodGet, "/api/grid/days?startWeek=2&weekCount=1&selected=2024-03-06", nil))

		// then
		require.Equal(t, http.StatusOK, w.Code)
		var days []DayDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&days))
		require.Len(t, days, 7)
		assert.Equal(t, "2024-03-06", days[2].Date)
		assert.True(t, days[2].IsSelected)
		require.Len(t, days[2].Occurrences, 1)
		assert.Equal(t, "event-1", days[2].Occurrences[0].SeriesId)
	})

	testCases := []struct {
		name  string
		query string
	}{
		{name: "invalid start week", query: "startWeek=abc"},
		{name: "invalid week count", query: "weekCount=1.5"},
		{name: "invalid selection", query: "selected=2024-13-01"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := setupService()
			w := httptest.NewRecorder()

			NewHandler(service).GetDays(w, httptest.NewRequest(http.MethodGet, "/api/grid/days?"+tc.query, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_GetMetadata(t *testing.T) {
	service, _ := setupService()
	w := httptest.NewRecorder()

	NewHandler(service).GetMetadata(w, httptest.NewRequest(http.MethodGet, "/api/grid", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var meta MetadataDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&meta))
	assert.Equal(t, "2024-02-19", meta.BaseDate)
	assert.Equal(t, 6, meta.TotalWeeks)
	assert.Equal(t, "UTC", meta.Timezone)
}
