package hover_slot

import (
	"math"
	"time"

	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

const (
	minutesInDay   = 24 * 60
	roundingStep   = 15
	defaultLength  = 30 * time.Minute
	latestProposal = minutesInDay - roundingStep
)

// CreationIntent is what clicking a slot asks the event form to prefill.
type CreationIntent struct {
	Day                  time.Time
	Start                time.Time
	End                  time.Time
	PreviousOccurrenceID string
	NextOccurrenceID     string
}

// Propose picks start and end times for a new event in slot. It follows the
// previous occurrence when there is one ending on day, otherwise maps the slot
// position to the time of day.
func Propose(slot Slot, day time.Time, previous *recurrence.Occurrence) (time.Time, time.Time) {
	var start time.Time
	if previous != nil {
		start = roundToQuarter(previous.End().In(day.Location()))
	}
	if previous == nil || !grid.SameDay(start, day) {
		minutes := int(math.Round(slot.Ratio*minutesInDay/roundingStep)) * roundingStep
		minutes = min(max(minutes, 0), latestProposal)
		y, m, d := day.Date()
		start = time.Date(y, m, d, 0, minutes, 0, 0, day.Location())
	}

	end := start.Add(defaultLength)
	if !grid.SameDay(start, end) {
		y, m, d := start.Date()
		end = time.Date(y, m, d, 23, 59, 0, 0, start.Location())
	}
	return start, end
}

// roundToQuarter rounds the minutes of t to the nearest quarter hour and
// drops seconds.
func roundToQuarter(t time.Time) time.Time {
	minutes := int(math.Round(float64(t.Minute())/roundingStep)) * roundingStep
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), minutes, 0, 0, t.Location())
}

// Intent resolves slot against the occurrences of day. A previous id that is
// not one of the day's occurrences, such as a grouped time-off row, falls
// back to the slot position.
func Intent(slot Slot, day grid.Day) CreationIntent {
	var previous *recurrence.Occurrence
	if slot.PreviousOccurrenceID != "" {
		for i := range day.Occurrences {
			if day.Occurrences[i].Id == slot.PreviousOccurrenceID {
				previous = &day.Occurrences[i]
				break
			}
		}
	}
	start, end := Propose(slot, day.Date, previous)
	return CreationIntent{
		Day:                  day.Date,
		Start:                start,
		End:                  end,
		PreviousOccurrenceID: slot.PreviousOccurrenceID,
		NextOccurrenceID:     slot.NextOccurrenceID,
	}
}
