package event

import (
	"time"
)

type Type string

const (
	TimeOff         Type = "time-off"
	Birthday        Type = "birthday"
	WorkAnniversary Type = "work-anniversary"
	CompanyEvent    Type = "company-event"
	Deadline        Type = "deadline"
)

var Types = []Type{TimeOff, Birthday, WorkAnniversary, CompanyEvent, Deadline}

func (t Type) Valid() bool {
	switch t {
	case TimeOff, Birthday, WorkAnniversary, CompanyEvent, Deadline:
		return true
	}
	return false
}

func (t Type) Label() string {
	switch t {
	case TimeOff:
		return "Time Off"
	case Birthday:
		return "Birthday"
	case WorkAnniversary:
		return "Work Anniversary"
	case CompanyEvent:
		return "Company Event"
	case Deadline:
		return "Deadline"
	}
	return string(t)
}

// Cadence is the recurrence rule of an event. The four named cadences are
// expanded into instances; any other non-empty value is kept verbatim but not
// expanded.
type Cadence string

const (
	Daily   Cadence = "daily"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
	Yearly  Cadence = "yearly"
)

func (c Cadence) Known() bool {
	switch c {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

type Role string

const (
	Organizer Role = "organizer"
	Attendee  Role = "attendee"
	Watcher   Role = "watcher"
)

type Participant struct {
	Id       string
	PersonId string
	Name     string
	Email    string
	Role     Role
}

type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderIcs    Provider = "ics"
)

// Source tells where an event was created. CalendarId and EventId are set for
// Google events, FeedId and Uid for events imported from an ICS feed.
type Source struct {
	Provider   Provider
	CalendarId string
	EventId    string
	FeedId     string
	Uid        string
}

type Event struct {
	Id             string
	Title          string
	StartsAt       time.Time
	EndsAt         *time.Time
	IsAllDay       bool
	Type           Type
	Description    string
	Location       string
	TimeZone       string
	RecurrenceRule Cadence
	Owner          Participant
	Attendees      []Participant
	Source         Source
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// End returns EndsAt, or StartsAt for point-in-time events.
func (e Event) End() time.Time {
	if e.EndsAt != nil {
		return *e.EndsAt
	}
	return e.StartsAt
}

func (e Event) IsRecurring() bool {
	return e.RecurrenceRule != ""
}

// Participants returns the owner followed by the attendees.
func (e Event) Participants() []Participant {
	participants := make([]Participant, 0, len(e.Attendees)+1)
	participants = append(participants, e.Owner)
	return append(participants, e.Attendees...)
}

// Clone returns a copy that shares no pointers or slices with e.
func (e Event) Clone() Event {
	c := e
	if e.EndsAt != nil {
		end := *e.EndsAt
		c.EndsAt = &end
	}
	if e.Attendees != nil {
		c.Attendees = append([]Participant(nil), e.Attendees...)
	}
	return c
}
