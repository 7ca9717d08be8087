package conflict

import (
	"strings"

	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

// Overlaps reports whether two occurrences share time. All-day occurrences
// compare whole days inclusively; timed ones use half-open intervals, so
// back-to-back events do not overlap.
func Overlaps(a, b recurrence.Occurrence) bool {
	if a.IsAllDay || b.IsAllDay {
		aStart, aEnd := grid.StartOfDay(a.StartsAt), grid.StartOfDay(a.End())
		bStart, bEnd := grid.StartOfDay(b.StartsAt), grid.StartOfDay(b.End())
		return !aStart.After(bEnd) && !bStart.After(aEnd)
	}
	return a.StartsAt.Before(b.End()) && b.StartsAt.Before(a.End())
}

// SameParticipant matches by id, then person id, then email ignoring case,
// then exact name. Empty fields never match.
func SameParticipant(p1, p2 event.Participant) bool {
	if p1.Id != "" && p1.Id == p2.Id {
		return true
	}
	if p1.PersonId != "" && p1.PersonId == p2.PersonId {
		return true
	}
	if p1.Email != "" && strings.EqualFold(p1.Email, p2.Email) {
		return true
	}
	return p1.Name != "" && p1.Name == p2.Name
}

func ShareParticipants(a, b recurrence.Occurrence) bool {
	others := b.Participants()
	for _, p := range a.Participants() {
		for _, other := range others {
			if SameParticipant(p, other) {
				return true
			}
		}
	}
	return false
}

// SameRecurringSeries reports whether both occurrences come from one
// recurring event. Distinct events with equal rule, title, type and owner
// count as one series too.
func SameRecurringSeries(a, b recurrence.Occurrence) bool {
	if !a.IsRecurring() || !b.IsRecurring() {
		return false
	}
	if a.BaseID() == b.BaseID() {
		return true
	}
	return a.RecurrenceRule == b.RecurrenceRule &&
		a.Title == b.Title &&
		a.Type == b.Type &&
		a.Owner.Id == b.Owner.Id
}

// FindConflicts returns the existing occurrences overlapping candidate, in
// their original order.
func FindConflicts(candidate recurrence.Occurrence, existing []recurrence.Occurrence) []recurrence.Occurrence {
	conflicts := []recurrence.Occurrence{}
	for _, o := range existing {
		if Overlaps(candidate, o) {
			conflicts = append(conflicts, o)
		}
	}
	return conflicts
}

func FindConflictsWithSharedParticipants(candidate recurrence.Occurrence, existing []recurrence.Occurrence) []recurrence.Occurrence {
	conflicts := []recurrence.Occurrence{}
	for _, o := range existing {
		if Overlaps(candidate, o) && ShareParticipants(candidate, o) {
			conflicts = append(conflicts, o)
		}
	}
	return conflicts
}
