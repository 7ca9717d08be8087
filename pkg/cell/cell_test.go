package cell

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

var day = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func occurrence(id string, eventType event.Type, owner event.Participant) recurrence.Occurrence {
	start := day.Add(9 * time.Hour)
	end := start.Add(time.Hour)
	return recurrence.Single(event.Event{Id: id, Title: id, StartsAt: start, EndsAt: &end, Type: eventType, Owner: owner})
}

func TestPlanOverflow(t *testing.T) {
	testCases := []struct {
		name      string
		count     int
		available float64
		expected  Plan
	}{
		{name: "empty cell", count: 0, available: 100, expected: Plan{}},
		{name: "not measured", count: 7, available: 0, expected: Plan{Visible: 7}},
		{name: "exact fit", count: 4, available: 4*20 + 3*2, expected: Plan{Visible: 4}},
		{name: "one pixel short", count: 4, available: 4*20 + 3*2 - 1, expected: Plan{Visible: 2, Remaining: 2}},
		{name: "room for indicator only", count: 3, available: 25, expected: Plan{Visible: 0, Remaining: 3}},
		{name: "too small even for indicator", count: 3, available: 10, expected: Plan{Visible: 0, Remaining: 3}},
		{name: "several rows and indicator", count: 10, available: 120, expected: Plan{Visible: 4, Remaining: 6}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			plan := PlanOverflow(tc.count, tc.available, DefaultMetrics)

			assert.Equal(t, tc.expected, plan)
			if tc.count > 0 && tc.available > 0 && plan.ShowMore() {
				assert.GreaterOrEqual(t, plan.Remaining, 1)
			}
		})
	}
}

func TestPlanOverflow_MoreHeightDefaultsToRowHeight(t *testing.T) {
	plan := PlanOverflow(5, 50, Metrics{RowHeight: 10, Gap: 5})

	assert.Equal(t, Plan{Visible: 2, Remaining: 3}, plan)
}

func TestMoreLabel(t *testing.T) {
	assert.Equal(t, "1 more event", MoreLabel(1))
	assert.Equal(t, "3 more events", MoreLabel(3))
}

func TestPlanner(t *testing.T) {
	planner := NewPlanner(DefaultMetrics)

	first := planner.Plan(5, 60)
	again := planner.Plan(5, 60)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, planner.Computations())

	planner.Plan(6, 60)
	planner.Plan(6, 200)
	assert.Equal(t, 3, planner.Computations())
}

func TestGroup(t *testing.T) {
	t.Run("should put grouped time off first", func(t *testing.T) {
		// given
		priya := event.Participant{Id: "person-priya-patel", Name: "Priya Patel"}
		occurrences := []recurrence.Occurrence{
			occurrence("standup", event.CompanyEvent, event.DefaultOwner),
			occurrence("off-1", event.TimeOff, priya),
			occurrence("release", event.Deadline, event.DefaultOwner),
			occurrence("off-2", event.TimeOff, priya),
			occurrence("off-3", event.TimeOff, event.Participant{Name: "Jordan Smith"}),
		}

		// when
		items := Group(day, occurrences)

		// then
		require.Len(t, items, 3)
		grouped, ok := items[0].(GroupedTimeOff)
		require.True(t, ok)
		assert.Equal(t, "grouped-time-off-2024-03-04T00:00:00.000Z", grouped.ID())
		assert.Equal(t, "2 people off", grouped.Title())
		assert.Equal(t, 2, grouped.People)
		assert.Len(t, grouped.Members, 3)
		assert.Equal(t, "off-1", grouped.Target().Id)
		assert.Equal(t, "off-1", occurrences[1].Id, "input must not change")
		assert.Equal(t, "standup", items[1].ID())
		assert.Equal(t, "release", items[2].ID())
	})

	t.Run("should use singular title", func(t *testing.T) {
		items := Group(day, []recurrence.Occurrence{occurrence("off-1", event.TimeOff, event.Participant{Id: "p-1"})})

		require.Len(t, items, 1)
		assert.Equal(t, "1 person off", items[0].Title())
	})

	t.Run("should leave days without time off alone", func(t *testing.T) {
		items := Group(day, []recurrence.Occurrence{occurrence("standup", event.CompanyEvent, event.DefaultOwner)})

		require.Len(t, items, 1)
		_, ok := items[0].(Single)
		assert.True(t, ok)
	})
}

func TestHighlightFor(t *testing.T) {
	weekly := occurrence("sync", event.CompanyEvent, event.DefaultOwner).Event
	weekly.RecurrenceRule = event.Weekly
	instances := recurrence.Expand([]event.Event{weekly}, day, day.AddDate(0, 0, 8))
	require.Len(t, instances, 2)
	offs := Group(day, []recurrence.Occurrence{
		occurrence("off-1", event.TimeOff, event.Participant{Id: "p-1"}),
		occurrence("off-2", event.TimeOff, event.Participant{Id: "p-2"}),
	})

	assert.Equal(t, Highlight{}, HighlightFor(Single{Occurrence: instances[0]}, nil))
	assert.Equal(t, Highlight{Selected: true}, HighlightFor(Single{Occurrence: instances[0]}, &instances[0]))
	assert.Equal(t, Highlight{InSelectedSeries: true}, HighlightFor(Single{Occurrence: instances[1]}, &instances[0]))
	member := offs[0].(GroupedTimeOff).Members[1]
	assert.Equal(t, Highlight{Selected: true}, HighlightFor(offs[0], &member))
	assert.Equal(t, Highlight{}, HighlightFor(offs[0], &instances[0]))
}

type dayReaderStub struct {
	day grid.Day
}

func (d dayReaderStub) Metadata() grid.Metadata {
	return grid.Metadata{Location: time.UTC}
}

func (d dayReaderStub) Day(ctx context.Context, date time.Time) (grid.Day, error) {
	return d.day, nil
}

func busyDay() grid.Day {
	occurrences := []recurrence.Occurrence{occurrence("off-1", event.TimeOff, event.Participant{Id: "p-1"})}
	for _, id := range []string{"a", "b", "c", "d"} {
		occurrences = append(occurrences, occurrence(id, event.CompanyEvent, event.DefaultOwner))
	}
	return grid.Day{Date: day, Occurrences: occurrences}
}

func TestService_Plan(t *testing.T) {
	service := NewService(dayReaderStub{day: busyDay()}, DefaultMetrics)

	plan, err := service.Plan(context.Background(), day, 70, nil)

	require.NoError(t, err)
	require.Len(t, plan.Rows, 2)
	assert.Equal(t, GroupedTimeOffID(day), plan.Rows[0].Item.ID())
	assert.Equal(t, 3, plan.Remaining)
	assert.Equal(t, "3 more events", plan.MoreLabel())
}

func TestHandler_Plan(t *testing.T) {
	handler := NewHandler(NewService(dayReaderStub{day: busyDay()}, DefaultMetrics))

	t.Run("should plan rows with highlight", func(t *testing.T) {
		selected := recurrence.ToDTO(occurrence("a", event.CompanyEvent, event.DefaultOwner))
		body, err := json.Marshal(PlanRequest{Date: "2024-03-04", AvailableHeight: 0, Selected: &selected})
		require.NoError(t, err)
		w := httptest.NewRecorder()

		handler.Plan(w, httptest.NewRequest(http.MethodPost, "/api/cells/plan", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, w.Code)
		var response PlanResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		require.Len(t, response.Rows, 5)
		assert.Equal(t, "grouped-time-off", response.Rows[0].Kind)
		assert.Len(t, response.Rows[0].Members, 1)
		assert.True(t, response.Rows[1].Selected)
		assert.Zero(t, response.Remaining)
		assert.Empty(t, response.MoreLabel)
	})

	t.Run("should reject invalid date", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.Plan(w, httptest.NewRequest(http.MethodPost, "/api/cells/plan", bytes.NewBufferString(`{"date":"04.03.2024"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
