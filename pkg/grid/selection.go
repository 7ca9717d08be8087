package grid

import (
	"sort"
	"time"

	"github.com/teamcal/teamcal/pkg/recurrence"
)

type Section struct {
	Date        time.Time
	Occurrences []recurrence.Occurrence
}

func selectionSet(selected []time.Time) map[string]bool {
	set := make(map[string]bool, len(selected))
	for _, d := range selected {
		set[DateKey(d)] = true
	}
	return set
}

// ApplySelection returns copies of days with IsSelected and IsDimmed set.
// Nothing is dimmed when the selection is empty.
func ApplySelection(days []Day, selected []time.Time) []Day {
	set := selectionSet(selected)
	result := make([]Day, len(days))
	for i, day := range days {
		day.IsSelected = set[DateKey(day.Date)]
		day.IsDimmed = len(set) > 0 && !day.IsSelected
		result[i] = day
	}
	return result
}

// Covers reports whether o's day span contains date.
func Covers(o recurrence.Occurrence, date time.Time) bool {
	loc := date.Location()
	day := StartOfDay(date)
	return !StartOfDay(o.StartsAt.In(loc)).After(day) && !StartOfDay(o.End().In(loc)).Before(day)
}

// InspectorSections groups occurrences by start day for the side panel. With a
// selection only occurrences covering a selected day are listed.
func InspectorSections(occurrences []recurrence.Occurrence, selected []time.Time, loc *time.Location) []Section {
	byDay := make(map[string]*Section)
	var keys []string
	for _, o := range occurrences {
		if len(selected) > 0 && !coversAny(o, selected) {
			continue
		}
		start := StartOfDay(o.StartsAt.In(loc))
		key := DateKey(start)
		section, ok := byDay[key]
		if !ok {
			section = &Section{Date: start}
			byDay[key] = section
			keys = append(keys, key)
		}
		section.Occurrences = append(section.Occurrences, o)
	}

	sort.Strings(keys)
	sections := make([]Section, 0, len(keys))
	for _, key := range keys {
		section := byDay[key]
		sort.SliceStable(section.Occurrences, func(i, j int) bool {
			return section.Occurrences[i].StartsAt.Before(section.Occurrences[j].StartsAt)
		})
		sections = append(sections, *section)
	}
	return sections
}

func coversAny(o recurrence.Occurrence, dates []time.Time) bool {
	for _, d := range dates {
		if Covers(o, d) {
			return true
		}
	}
	return false
}
