package recurrence

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/pkg/event"
)

// Limits bound the work done for a single recurring event.
type Limits struct {
	// MaxInstances caps the instances generated for one event.
	MaxInstances int
	// MonthlySearch and YearlySearch bound the scan for the first monthly or
	// yearly instance at or after the range start.
	MonthlySearch int
	YearlySearch  int
}

var DefaultLimits = Limits{
	MaxInstances:  1000,
	MonthlySearch: 120,
	YearlySearch:  10,
}

const day = 24 * time.Hour

// Expand turns events into the occurrences falling in [rangeStart, rangeEnd].
// Output follows the input order, with each event's instances ascending.
func Expand(events []event.Event, rangeStart, rangeEnd time.Time) []Occurrence {
	return ExpandWithLimits(events, rangeStart, rangeEnd, DefaultLimits)
}

func ExpandWithLimits(events []event.Event, rangeStart, rangeEnd time.Time, limits Limits) []Occurrence {
	occurrences := make([]Occurrence, 0, len(events))
	for _, e := range events {
		if !e.IsRecurring() || !e.RecurrenceRule.Known() {
			if e.IsRecurring() {
				log.Warnf("event %s has unsupported recurrence rule %q, showing it once", e.Id, e.RecurrenceRule)
			}
			if intersects(e, rangeStart, rangeEnd) {
				occurrences = append(occurrences, Single(e))
			}
			continue
		}
		occurrences = append(occurrences, expandEvent(e, rangeStart, rangeEnd, limits)...)
	}
	return occurrences
}

func intersects(e event.Event, rangeStart, rangeEnd time.Time) bool {
	return !e.StartsAt.After(rangeEnd) && !e.End().Before(rangeStart)
}

func expandEvent(e event.Event, rangeStart, rangeEnd time.Time, limits Limits) []Occurrence {
	start := e.StartsAt
	var duration time.Duration
	if e.EndsAt != nil {
		duration = e.EndsAt.Sub(start)
	}

	index, candidate, found := firstCandidate(e.RecurrenceRule, start, rangeStart, limits)
	if !found {
		log.Debugf("event %s: no %s instance found within search bound before %s", e.Id, e.RecurrenceRule, rangeStart)
		return nil
	}

	var occurrences []Occurrence
	for !candidate.After(rangeEnd) {
		if len(occurrences) >= limits.MaxInstances {
			log.Warnf("event %s: stopped after %d instances", e.Id, limits.MaxInstances)
			break
		}
		instance := e.Clone()
		instance.Id = InstanceID(e.Id, index)
		instance.StartsAt = candidate
		if e.EndsAt != nil {
			end := candidate.Add(duration)
			instance.EndsAt = &end
		}
		occurrences = append(occurrences, Occurrence{
			Event:  instance,
			Series: Series{BaseID: e.Id, Index: index, IsInstance: true},
		})

		index++
		if e.RecurrenceRule == event.Daily {
			candidate = candidate.AddDate(0, 0, 1)
		} else {
			candidate = step(e.RecurrenceRule, start, index)
		}
	}
	return occurrences
}

// firstCandidate finds the first instance starting at or after rangeStart.
func firstCandidate(cadence event.Cadence, start, rangeStart time.Time, limits Limits) (int, time.Time, bool) {
	if !start.Before(rangeStart) {
		return 0, start, true
	}
	switch cadence {
	case event.Daily, event.Weekly:
		stepLength := day
		if cadence == event.Weekly {
			stepLength = 7 * day
		}
		n := int(math.Ceil(float64(rangeStart.Sub(start)) / float64(stepLength)))
		// Elapsed time and calendar days disagree across DST changes.
		for n > 0 && !step(cadence, start, n-1).Before(rangeStart) {
			n--
		}
		candidate := step(cadence, start, n)
		for candidate.Before(rangeStart) {
			n++
			candidate = step(cadence, start, n)
		}
		return n, candidate, true
	case event.Monthly, event.Yearly:
		bound := limits.MonthlySearch
		if cadence == event.Yearly {
			bound = limits.YearlySearch
		}
		for i := 0; i < bound; i++ {
			candidate := step(cadence, start, i)
			if !candidate.Before(rangeStart) {
				return i, candidate, true
			}
		}
	}
	return 0, time.Time{}, false
}

// step returns the n-th instance start counted from the original start.
func step(cadence event.Cadence, start time.Time, n int) time.Time {
	switch cadence {
	case event.Daily:
		return start.AddDate(0, 0, n)
	case event.Weekly:
		return start.AddDate(0, 0, 7*n)
	case event.Monthly:
		return AddMonths(start, n)
	default:
		return AddMonths(start, 12*n)
	}
}

// AddMonths adds n calendar months, clamping the day to the last day of the
// target month (Jan 31 + 1 month = Feb 29 in a leap year).
func AddMonths(t time.Time, n int) time.Time {
	year, month, dayOfMonth := t.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); dayOfMonth > last {
		dayOfMonth = last
	}
	return time.Date(first.Year(), first.Month(), dayOfMonth, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
