package conflict

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type Service interface {
	Check(ctx context.Context, candidate event.Event, sharedOnly bool) ([]recurrence.Occurrence, error)
}

type ServiceImpl struct {
	events   grid.EventReader
	location *time.Location
}

func NewService(events grid.EventReader, location *time.Location) *ServiceImpl {
	return &ServiceImpl{events: events, location: location}
}

// Check finds stored occurrences clashing with candidate. Instances of the
// candidate's own event are ignored, so editing an event never conflicts with
// itself.
func (s *ServiceImpl) Check(ctx context.Context, candidate event.Event, sharedOnly bool) ([]recurrence.Occurrence, error) {
	candidate = inLocation(candidate, s.location)
	from := grid.StartOfDay(candidate.StartsAt)
	to := grid.EndOfDay(candidate.End())

	events, err := s.events.GetEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read events for conflict check: %w", err)
	}
	var existing []recurrence.Occurrence
	for _, o := range recurrence.Expand(events, from, to) {
		if candidate.Id != "" && o.BaseID() == candidate.Id {
			continue
		}
		o.Event = inLocation(o.Event, s.location)
		existing = append(existing, o)
	}

	subject := recurrence.Single(candidate)
	var conflicts []recurrence.Occurrence
	if sharedOnly {
		conflicts = FindConflictsWithSharedParticipants(subject, existing)
	} else {
		conflicts = FindConflicts(subject, existing)
	}
	log.Debugf("conflict check for %q: %d of %d occurrences overlap", candidate.Title, len(conflicts), len(existing))
	return conflicts, nil
}

func inLocation(e event.Event, loc *time.Location) event.Event {
	e.StartsAt = e.StartsAt.In(loc)
	if e.EndsAt != nil {
		end := e.EndsAt.In(loc)
		e.EndsAt = &end
	}
	return e
}
