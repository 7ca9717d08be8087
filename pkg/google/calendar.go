package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
	gcal "google.golang.org/api/calendar/v3"
)

const (
	statusCancelled   = "cancelled"
	typeOutOfOffice   = "outOfOffice"
	typeBirthday      = "birthday"
	googleDateLayout  = "2006-01-02"
	untitledEventName = "Busy"
)

// Calendar reads events of one Google calendar.
type Calendar struct {
	service    *gcal.Service
	calendarId string
	location   *time.Location
}

func newGoogleCalendar(service *gcal.Service, calendarId string, location *time.Location) *Calendar {
	return &Calendar{service: service, calendarId: calendarId, location: location}
}

// GetEvents lists single instances of every event between from and to,
// following all result pages.
func (c *Calendar) GetEvents(ctx context.Context, from, to time.Time) ([]event.Event, error) {
	events := make([]event.Event, 0)
	err := c.service.Events.List(c.calendarId).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Pages(ctx, func(page *gcal.Events) error {
			for _, item := range page.Items {
				e, ok, err := ToEvent(item, c.calendarId, c.location)
				if err != nil {
					log.Warnf("skipping Google event %s: %v", item.Id, err)
					continue
				}
				if ok {
					events = append(events, e)
				}
			}
			return nil
		})
	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %w", err)
		log.Error(err)
		return nil, err
	}
	return events, nil
}

// ToEvent converts a Google event. Cancelled events are reported with ok
// false. Out-of-office entries become time off.
func ToEvent(item *gcal.Event, calendarId string, location *time.Location) (event.Event, bool, error) {
	if item == nil || item.Status == statusCancelled {
		return event.Event{}, false, nil
	}
	if item.Start == nil {
		return event.Event{}, false, fmt.Errorf("event has no start")
	}

	e := event.Event{
		Id:          EventID(item.Id),
		Title:       strings.TrimSpace(item.Summary),
		Type:        typeOf(item),
		Description: item.Description,
		Location:    item.Location,
		TimeZone:    location.String(),
		Owner:       event.DefaultOwner,
		Source:      event.Source{Provider: event.ProviderGoogle, CalendarId: calendarId, EventId: item.Id},
	}
	if e.Title == "" {
		e.Title = untitledEventName
	}
	if item.Start.TimeZone != "" {
		e.TimeZone = item.Start.TimeZone
	}
	if item.Organizer != nil && item.Organizer.Email != "" {
		e.Owner = participant(item.Organizer.Email, item.Organizer.DisplayName, event.Organizer)
	}
	for _, a := range item.Attendees {
		if a == nil || a.Resource || a.Email == "" || strings.EqualFold(a.Email, e.Owner.Email) {
			continue
		}
		e.Attendees = append(e.Attendees, participant(a.Email, a.DisplayName, event.Attendee))
	}

	if item.Start.Date != "" {
		start, err := time.ParseInLocation(googleDateLayout, item.Start.Date, location)
		if err != nil {
			return event.Event{}, false, fmt.Errorf("invalid start date %q: %w", item.Start.Date, err)
		}
		lastDay := start
		if item.End != nil && item.End.Date != "" {
			if end, err := time.ParseInLocation(googleDateLayout, item.End.Date, location); err == nil && end.After(start) {
				lastDay = end.AddDate(0, 0, -1)
			}
		}
		endsAt := grid.EndOfDay(lastDay)
		e.IsAllDay = true
		e.StartsAt = start
		e.EndsAt = &endsAt
		return e, true, nil
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return event.Event{}, false, fmt.Errorf("invalid start %q: %w", item.Start.DateTime, err)
	}
	e.StartsAt = start
	if item.End != nil && item.End.DateTime != "" {
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return event.Event{}, false, fmt.Errorf("invalid end %q: %w", item.End.DateTime, err)
		}
		e.EndsAt = &end
	}
	return e, true, nil
}

func EventID(googleId string) string {
	return "google-" + googleId
}

func typeOf(item *gcal.Event) event.Type {
	switch item.EventType {
	case typeOutOfOffice:
		return event.TimeOff
	case typeBirthday:
		return event.Birthday
	}
	return event.CompanyEvent
}

func participant(email, name string, role event.Role) event.Participant {
	if name == "" {
		name = email
	}
	return event.Participant{Id: strings.ToLower(email), Name: name, Email: email, Role: role}
}
