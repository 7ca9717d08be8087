package google

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
)

// EventSource lists events of the synced calendar.
type EventSource interface {
	GetEvents(ctx context.Context, from, to time.Time) ([]event.Event, error)
}

// SourceProvider opens the calendar for one sync run.
type SourceProvider func(ctx context.Context) (EventSource, error)

type EventUpserter interface {
	UpsertEvents(ctx context.Context, events []event.Event) (int, error)
}

// Syncer copies the Google calendar into the event store for the weeks the
// grid shows.
type Syncer struct {
	source   SourceProvider
	events   EventUpserter
	clock    utils.Clock
	calendar config.Calendar
}

func NewSyncer(source SourceProvider, events EventUpserter, clock utils.Clock, calendar config.Calendar) *Syncer {
	return &Syncer{source: source, events: events, clock: clock, calendar: calendar}
}

// CalendarSource opens calendarId through the service on every run, so a
// token connected after startup is picked up.
func CalendarSource(service Service, calendarId string) SourceProvider {
	return func(ctx context.Context) (EventSource, error) {
		cal, err := service.GetCalendar(ctx, calendarId)
		if err != nil {
			return nil, err
		}
		return cal, nil
	}
}

// Window is the synced range: the grid's weeks around today.
func (s *Syncer) Window() (time.Time, time.Time) {
	today := grid.StartOfDay(s.clock.Now().In(s.calendar.Location()))
	from := today.AddDate(0, 0, -7*s.calendar.WeeksBackward)
	to := today.AddDate(0, 0, 7*s.calendar.WeeksForward)
	return from, to
}

func (s *Syncer) Sync(ctx context.Context) (int, error) {
	source, err := s.source(ctx)
	if err != nil {
		return 0, err
	}
	from, to := s.Window()
	events, err := source.GetEvents(ctx, from, to)
	if err != nil {
		return 0, err
	}
	count, err := s.events.UpsertEvents(ctx, events)
	if err != nil {
		return 0, fmt.Errorf("failed to store Google events: %w", err)
	}
	log.Infof("Synced %d Google Calendar events between %s and %s", count, grid.DateKey(from), grid.DateKey(to))
	return count, nil
}
