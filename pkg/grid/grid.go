package grid

import (
	"time"

	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type Day struct {
	Date         time.Time
	DayIndex     int
	WeekIndex    int
	IsToday      bool
	IsMonthStart bool
	IsSelected   bool
	IsDimmed     bool
	Occurrences  []recurrence.Occurrence
}

type BuildOptions struct {
	// BaseDate is the first day of week 0. Its location is the grid's location.
	BaseDate  time.Time
	Today     time.Time
	StartWeek int
	WeekCount int
	Events    []event.Event
}

// RangeFor returns the instants covered by weekCount weeks starting at
// startWeek. The end is the midnight after the last day.
func RangeFor(baseDate time.Time, startWeek, weekCount int) (time.Time, time.Time) {
	rangeStart := StartOfDay(baseDate).AddDate(0, 0, startWeek*7)
	return rangeStart, rangeStart.AddDate(0, 0, weekCount*7)
}

// Build materializes WeekCount weeks of days with the occurrences touching
// each day. Each call expands the events again.
func Build(opts BuildOptions) []Day {
	if opts.WeekCount <= 0 {
		return []Day{}
	}
	base := StartOfDay(opts.BaseDate)
	loc := base.Location()
	today := opts.Today.In(loc)
	rangeStart, rangeEnd := RangeFor(base, opts.StartWeek, opts.WeekCount)
	occurrences := recurrence.Expand(opts.Events, rangeStart, rangeEnd)

	totalDays := opts.WeekCount * 7
	days := make([]Day, totalDays)
	for i := range days {
		date := rangeStart.AddDate(0, 0, i)
		dayIndex := opts.StartWeek*7 + i
		days[i] = Day{
			Date:         date,
			DayIndex:     dayIndex,
			WeekIndex:    floorDiv(dayIndex, 7),
			IsToday:      SameDay(date, today),
			IsMonthStart: date.Day() == 1,
			Occurrences:  []recurrence.Occurrence{},
		}
	}

	for _, o := range occurrences {
		first := DaysBetween(rangeStart, o.StartsAt.In(loc))
		last := DaysBetween(rangeStart, o.End().In(loc))
		if last < first {
			last = first
		}
		first = max(first, 0)
		last = min(last, totalDays-1)
		for i := first; i <= last; i++ {
			days[i].Occurrences = append(days[i].Occurrences, o)
		}
	}
	return days
}

// BaseDate returns the start of the week containing today, moved back by
// weeksBackward weeks.
func BaseDate(today time.Time, weekStart time.Weekday, weeksBackward int) time.Time {
	if weekStart < time.Sunday || weekStart > time.Saturday {
		weekStart = time.Sunday
	}
	delta := (int(today.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(today).AddDate(0, 0, -delta-weeksBackward*7)
}

func WeekIndexForDate(baseDate, date time.Time) int {
	return floorDiv(DaysBetween(baseDate, date.In(baseDate.Location())), 7)
}
