package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
)

const productId = "-//teamcal//calendar//EN"

// Export renders events as a VCALENDAR. Events imported from a feed keep
// their original UID.
func Export(events []event.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(productId)
	cal.SetMethod(ical.MethodPublish)

	for _, e := range events {
		uid := e.Source.Uid
		if uid == "" {
			uid = e.Id
		}
		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Title)
		ve.SetProperty(ical.ComponentPropertyCategories, string(e.Type))
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}

		if e.IsAllDay {
			ve.SetAllDayStartAt(e.StartsAt)
			ve.SetAllDayEndAt(grid.StartOfDay(e.End()).AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(e.StartsAt)
			if e.EndsAt != nil {
				ve.SetEndAt(*e.EndsAt)
			}
		}

		if rule := RRuleFromCadence(e.RecurrenceRule); rule != "" {
			ve.AddRrule(rule)
		}
		if e.Owner.Email != "" {
			ve.SetOrganizer("mailto:"+e.Owner.Email, ical.WithCN(e.Owner.Name))
		}
		for _, a := range e.Attendees {
			if a.Email != "" {
				ve.AddAttendee(a.Email, ical.WithCN(a.Name))
			}
		}
	}
	return cal.Serialize()
}
