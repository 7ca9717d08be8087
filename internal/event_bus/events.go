package event_bus

import "time"

const (
	CalendarEventCreated EventType = "calendar.event.created"
	CalendarEventUpdated EventType = "calendar.event.updated"
	CalendarEventDeleted EventType = "calendar.event.deleted"
)

// CalendarEventChanged is the payload of the calendar.event.* events.
type CalendarEventChanged struct {
	EventId        string
	Title          string
	StartsAt       time.Time
	EndsAt         *time.Time
	IsAllDay       bool
	RecurrenceRule string
}
