package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
)

const (
	dateLayout         = "20060102"
	dateTimeLayout     = "20060102T150405"
	utcDateTimeLayout  = "20060102T150405Z"
	untitledEventTitle = "Untitled event"
)

const recurrenceIdProperty = ical.ComponentProperty("RECURRENCE-ID")

var ErrInvalidCalendar = errors.New("invalid calendar")

var errMissingStart = errors.New("missing DTSTART")

// EventID is the stored id of a VEVENT imported from a feed.
func EventID(feedID, uid string) string {
	return "ics-" + feedID + "-" + uid
}

// Parse reads the VEVENTs of an ICS payload. Floating times and dates are
// interpreted in loc. Broken VEVENTs and recurrence overrides are skipped.
func Parse(r io.Reader, feedID string, loc *time.Location) ([]event.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
	}

	vevents := cal.Events()
	events := make([]event.Event, 0, len(vevents))
	for _, ve := range vevents {
		if ve.GetProperty(recurrenceIdProperty) != nil {
			log.Debugf("skipping recurrence override in feed %s", feedID)
			continue
		}
		e, err := fromVEvent(ve, feedID, loc)
		if err != nil {
			log.Warnf("skipping VEVENT in feed %s: %v", feedID, err)
			continue
		}
		events = append(events, e)
	}
	log.Debugf("parsed %d events from feed %s", len(events), feedID)
	return events, nil
}

func fromVEvent(ve *ical.VEvent, feedID string, loc *time.Location) (event.Event, error) {
	uid := propertyValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		return event.Event{}, errors.New("missing UID")
	}
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return event.Event{}, errMissingStart
	}

	e := event.Event{
		Id:             EventID(feedID, uid),
		Title:          strings.TrimSpace(propertyValue(ve, ical.ComponentPropertySummary)),
		Type:           typeFromCategories(propertyValue(ve, ical.ComponentPropertyCategories)),
		Description:    propertyValue(ve, ical.ComponentPropertyDescription),
		Location:       propertyValue(ve, ical.ComponentPropertyLocation),
		TimeZone:       loc.String(),
		RecurrenceRule: CadenceFromRRule(propertyValue(ve, ical.ComponentPropertyRrule)),
		Owner:          organizer(ve),
		Attendees:      attendees(ve),
		Source:         event.Source{Provider: event.ProviderIcs, FeedId: feedID, Uid: uid},
	}
	if e.Title == "" {
		e.Title = untitledEventTitle
	}
	if tz := parameter(dtStart, ical.ParameterTzid); tz != "" {
		e.TimeZone = tz
	}

	dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd)
	if isDateValue(dtStart) {
		start, err := time.ParseInLocation(dateLayout, dtStart.Value, loc)
		if err != nil {
			return event.Event{}, fmt.Errorf("invalid DTSTART %q: %w", dtStart.Value, err)
		}
		lastDay := start
		if dtEnd != nil {
			// DTEND of an all-day event is the exclusive next day.
			if end, err := time.ParseInLocation(dateLayout, dtEnd.Value, loc); err == nil && end.After(start) {
				lastDay = end.AddDate(0, 0, -1)
			}
		}
		endsAt := grid.EndOfDay(lastDay)
		e.IsAllDay = true
		e.StartsAt = start
		e.EndsAt = &endsAt
		return e, nil
	}

	start, err := parseDateTime(dtStart, loc)
	if err != nil {
		return event.Event{}, fmt.Errorf("invalid DTSTART %q: %w", dtStart.Value, err)
	}
	e.StartsAt = start
	if dtEnd != nil {
		end, err := parseDateTime(dtEnd, loc)
		if err != nil {
			return event.Event{}, fmt.Errorf("invalid DTEND %q: %w", dtEnd.Value, err)
		}
		e.EndsAt = &end
	}
	return e, nil
}

func propertyValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

func parameter(p *ical.IANAProperty, name ical.Parameter) string {
	if values := p.ICalParameters[string(name)]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func isDateValue(p *ical.IANAProperty) bool {
	return strings.EqualFold(parameter(p, ical.ParameterValue), "DATE") || !strings.Contains(p.Value, "T")
}

func parseDateTime(p *ical.IANAProperty, loc *time.Location) (time.Time, error) {
	value := strings.TrimSpace(p.Value)
	if strings.HasSuffix(value, "Z") {
		return time.Parse(utcDateTimeLayout, value)
	}
	if tz := parameter(p, ical.ParameterTzid); tz != "" {
		if tzLoc, err := time.LoadLocation(tz); err == nil {
			loc = tzLoc
		} else {
			log.Debugf("unknown TZID %q, using %s", tz, loc)
		}
	}
	return time.ParseInLocation(dateTimeLayout, value, loc)
}

func typeFromCategories(categories string) event.Type {
	for _, category := range strings.Split(categories, ",") {
		t := event.Type(strings.ToLower(strings.TrimSpace(category)))
		if t.Valid() {
			return t
		}
	}
	return event.CompanyEvent
}

func organizer(ve *ical.VEvent) event.Participant {
	p := ve.GetProperty(ical.ComponentPropertyOrganizer)
	if p == nil {
		return event.DefaultOwner
	}
	email := stripMailto(p.Value)
	if email == "" {
		return event.DefaultOwner
	}
	return participant(email, parameter(p, ical.ParameterCn), event.Organizer)
}

func attendees(ve *ical.VEvent) []event.Participant {
	var result []event.Participant
	for _, a := range ve.Attendees() {
		email := stripMailto(a.Value)
		if email == "" {
			continue
		}
		result = append(result, participant(email, parameter(&a.IANAProperty, ical.ParameterCn), event.Attendee))
	}
	return result
}

func participant(email, name string, role event.Role) event.Participant {
	if name == "" {
		name = email
	}
	return event.Participant{Id: strings.ToLower(email), Name: name, Email: email, Role: role}
}

func stripMailto(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 7 && strings.EqualFold(value[:7], "mailto:") {
		value = value[7:]
	}
	return value
}
