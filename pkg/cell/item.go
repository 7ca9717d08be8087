package cell

import (
	"fmt"
	"time"

	"github.com/teamcal/teamcal/pkg/conflict"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

const groupedTimeOffPrefix = "grouped-time-off-"

// Item is one rendered row of a day cell: a Single occurrence or the
// GroupedTimeOff entry standing for all time-off of the day.
type Item interface {
	ID() string
	Title() string
	// Target is the occurrence opened when the row is clicked.
	Target() recurrence.Occurrence
	isItem()
}

type Single struct {
	Occurrence recurrence.Occurrence
}

func (s Single) ID() string                    { return s.Occurrence.Id }
func (s Single) Title() string                 { return s.Occurrence.Title }
func (s Single) Target() recurrence.Occurrence { return s.Occurrence }
func (Single) isItem()                         {}

type GroupedTimeOff struct {
	// Representative is the first member with the grouped id and title.
	Representative recurrence.Occurrence
	Members        []recurrence.Occurrence
	People         int
}

func (g GroupedTimeOff) ID() string                    { return g.Representative.Id }
func (g GroupedTimeOff) Title() string                 { return g.Representative.Title }
func (g GroupedTimeOff) Target() recurrence.Occurrence { return g.Members[0] }
func (GroupedTimeOff) isItem()                         {}

func (g GroupedTimeOff) Contains(occurrenceId string) bool {
	for _, m := range g.Members {
		if m.Id == occurrenceId {
			return true
		}
	}
	return false
}

// GroupedTimeOffID names the grouped entry of the day starting at date.
func GroupedTimeOffID(date time.Time) string {
	return groupedTimeOffPrefix + date.UTC().Format("2006-01-02T15:04:05.000Z")
}

func PeopleOffTitle(people int) string {
	if people == 1 {
		return "1 person off"
	}
	return fmt.Sprintf("%d people off", people)
}

// Group folds the day's time-off occurrences into one entry placed first.
// Other occurrences keep their order.
func Group(date time.Time, occurrences []recurrence.Occurrence) []Item {
	var timeOff []recurrence.Occurrence
	var others []Item
	for _, o := range occurrences {
		if o.Type == event.TimeOff {
			timeOff = append(timeOff, o)
		} else {
			others = append(others, Single{Occurrence: o})
		}
	}

	items := make([]Item, 0, len(others)+1)
	if len(timeOff) > 0 {
		items = append(items, groupTimeOff(date, timeOff))
	}
	return append(items, others...)
}

func groupTimeOff(date time.Time, timeOff []recurrence.Occurrence) GroupedTimeOff {
	people := make(map[string]bool)
	for _, o := range timeOff {
		key := o.Owner.Id
		if key == "" {
			key = o.Owner.Name
		}
		people[key] = true
	}
	representative := timeOff[0]
	representative.Event = representative.Event.Clone()
	representative.Id = GroupedTimeOffID(date)
	representative.Title = PeopleOffTitle(len(people))
	return GroupedTimeOff{Representative: representative, Members: timeOff, People: len(people)}
}

// Highlight is the selection state of one row.
type Highlight struct {
	Selected         bool
	InSelectedSeries bool
}

// HighlightFor compares item with the selected occurrence. A grouped entry is
// selected when any member is.
func HighlightFor(item Item, selected *recurrence.Occurrence) Highlight {
	if selected == nil || selected.Id == "" {
		return Highlight{}
	}
	switch it := item.(type) {
	case GroupedTimeOff:
		if it.Contains(selected.Id) {
			return Highlight{Selected: true}
		}
		for _, m := range it.Members {
			if conflict.SameRecurringSeries(m, *selected) {
				return Highlight{InSelectedSeries: true}
			}
		}
	case Single:
		if it.Occurrence.Id == selected.Id {
			return Highlight{Selected: true}
		}
		return Highlight{InSelectedSeries: conflict.SameRecurringSeries(it.Occurrence, *selected)}
	}
	return Highlight{}
}
