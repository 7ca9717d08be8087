package seed

import (
	"time"

	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
)

var (
	alexey = event.Participant{Id: "p-1", Name: "Alexey Primechaev", Email: "alexey@warp.dev", Role: event.Organizer}
	rahul  = event.Participant{Id: "p-2", Name: "Rahul Sonwalkar", Email: "rahul@warp.dev"}
	jordan = event.Participant{Id: "p-3", Name: "Jordan Smith", Email: "jordan@warp.dev"}
	priya  = event.Participant{Id: "p-4", Name: "Priya Patel", Email: "priya@warp.dev"}
	emily  = event.Participant{Id: "p-5", Name: "Emily Chen", Email: "emily@warp.dev"}
	lucas  = event.Participant{Id: "p-6", Name: "Lucas Martínez", Email: "lucas@warp.dev"}
)

// DemoEvents returns the five sample events placed in the week of today.
func DemoEvents(today time.Time, weekStart time.Weekday) []event.Event {
	base := grid.BaseDate(today, weekStart, 0)
	at := func(days, hour int) time.Time {
		d := base.AddDate(0, 0, days)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, d.Location())
	}
	ptr := func(t time.Time) *time.Time { return &t }
	local := event.Source{Provider: event.ProviderLocal}

	return []event.Event{
		{
			Id:          "event-1",
			Title:       "Alexey PTO",
			StartsAt:    at(3, 0),
			EndsAt:      ptr(at(7, 0)),
			IsAllDay:    true,
			Type:        event.TimeOff,
			Description: "Recharge before the next release cadence.",
			Owner:       alexey,
			Attendees:   []event.Participant{rahul},
			TimeZone:    "America/Los_Angeles",
			Source:      local,
		},
		{
			Id:          "event-2",
			Title:       "Rahul’s Birthday",
			StartsAt:    at(2, 0),
			EndsAt:      ptr(at(3, 0)),
			IsAllDay:    true,
			Type:        event.Birthday,
			Description: "Send a note or join for cake in the afternoon.",
			Owner:       rahul,
			Attendees:   []event.Participant{alexey, jordan, priya},
			TimeZone:    "America/New_York",
			Source:      local,
		},
		{
			Id:          "event-3",
			Title:       "Jordan 5-Year Anniversary",
			StartsAt:    at(5, 0),
			EndsAt:      ptr(at(6, 0)),
			IsAllDay:    true,
			Type:        event.WorkAnniversary,
			Description: "Celebrate Jordan’s five-year milestone at Warp.",
			Owner:       jordan,
			Attendees:   []event.Participant{alexey, rahul, priya},
			Source:      local,
		},
		{
			Id:          "event-4",
			Title:       "Warp Quarterly All-Hands",
			StartsAt:    at(1, 18),
			EndsAt:      ptr(at(1, 19)),
			Type:        event.CompanyEvent,
			Description: "Company-wide updates, demos, and Q&A.",
			Owner:       alexey,
			Attendees:   []event.Participant{rahul, jordan, priya, emily, lucas},
			Location:    "Virtual · Zoom",
			TimeZone:    "America/Los_Angeles",
			Source:      local,
		},
		{
			Id:             "event-5",
			Title:          "Q2 Billing Deadline",
			StartsAt:       at(4, 21),
			Type:           event.Deadline,
			Description:    "Submit expense approvals before finance closes the books.",
			Owner:          emily,
			Attendees:      []event.Participant{alexey, rahul},
			RecurrenceRule: "FREQ=MONTHLY;BYDAY=MO;BYSETPOS=1",
			TimeZone:       "America/Chicago",
			Source:         local,
		},
	}
}
