package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Draft is the raw content of the "new event" form. Dates use 2006-01-02 and
// times 15:04.
type Draft struct {
	Title          string
	Type           Type
	IsAllDay       bool
	StartDate      string
	StartTime      string
	EndDate        string
	EndTime        string
	TimeZone       string
	Location       string
	Description    string
	AttendeesInput string
	RecurrenceRule string
	PersonId       string
}

// DefaultOwner owns events that are not tied to a person on the roster.
var DefaultOwner = Participant{Id: "local-owner", Name: "You", Role: Organizer}

// ValidationError lists every problem found in a draft or event.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + strings.Join(e.Problems, " ")
}

// Which form fields each type uses.
var (
	personTypes     = typeSet(TimeOff, Birthday, WorkAnniversary)
	titleTypes      = typeSet(CompanyEvent, Deadline)
	endDateTypes    = typeSet(TimeOff, CompanyEvent)
	timeTypes       = typeSet(CompanyEvent, Deadline)
	endTimeTypes    = typeSet(CompanyEvent)
	locationTypes   = typeSet(CompanyEvent)
	attendeeTypes   = typeSet(CompanyEvent)
	recurrenceTypes = typeSet(Deadline)
)

func typeSet(types ...Type) map[Type]bool {
	set := make(map[Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

func RequiresPerson(t Type) bool { return personTypes[t] }

type clockTime struct {
	hours   int
	minutes int
}

var attendeeEmailPattern = regexp.MustCompile(`<([^>]+)>`)

// BuildFromDraft validates d and turns it into an Event. people is the roster
// used to resolve PersonId. Dates are interpreted in d.TimeZone when it names
// a known zone, otherwise in loc.
func BuildFromDraft(d Draft, people []Participant, now time.Time, loc *time.Location) (Event, error) {
	var problems []string

	if !d.Type.Valid() {
		return Event{}, &ValidationError{Problems: []string{fmt.Sprintf("Event type %q is invalid.", d.Type)}}
	}

	zoneName := strings.TrimSpace(d.TimeZone)
	if zoneName != "" {
		if zone, err := time.LoadLocation(zoneName); err == nil {
			loc = zone
		}
	}
	if loc == nil {
		loc = time.Local
	}
	if zoneName == "" {
		zoneName = loc.String()
	}

	requiresPerson := personTypes[d.Type]
	var person *Participant
	if requiresPerson {
		for i := range people {
			if people[i].Id == d.PersonId {
				person = &people[i]
				break
			}
		}
		if person == nil {
			if len(people) == 0 {
				problems = append(problems, "Add people before creating this event type.")
			} else {
				problems = append(problems, "Select a person for this event type.")
			}
		}
	}

	title := strings.TrimSpace(d.Title)
	if titleTypes[d.Type] && title == "" {
		problems = append(problems, "Title is required.")
	}

	var startDate time.Time
	if d.StartDate == "" {
		problems = append(problems, "Start date is required.")
	} else if parsed, err := time.ParseInLocation(time.DateOnly, d.StartDate, loc); err != nil {
		problems = append(problems, "Start date is invalid.")
	} else {
		startDate = parsed
	}

	if len(problems) > 0 {
		return Event{}, &ValidationError{Problems: problems}
	}

	startParts := parseClockTime(d.StartTime, clockTime{hours: 9})
	isAllDay := true
	if timeTypes[d.Type] {
		isAllDay = d.IsAllDay
	}

	start := startDate
	if !isAllDay {
		start = atClockTime(startDate, startParts)
	}

	var end *time.Time
	if isAllDay {
		endSource := startDate
		if endDateTypes[d.Type] && d.EndDate != "" {
			parsed, err := time.ParseInLocation(time.DateOnly, d.EndDate, loc)
			switch {
			case err != nil:
				problems = append(problems, "End date is invalid.")
			case parsed.Before(startDate):
				problems = append(problems, "End date must be on or after the start date.")
			default:
				endSource = parsed
			}
		}
		endOfDay := time.Date(endSource.Year(), endSource.Month(), endSource.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
		end = &endOfDay
	} else if endDateTypes[d.Type] || (endTimeTypes[d.Type] && d.EndTime != "") {
		endDateString := d.StartDate
		if endDateTypes[d.Type] && d.EndDate != "" {
			endDateString = d.EndDate
		}
		endDate, err := time.ParseInLocation(time.DateOnly, endDateString, loc)
		if err != nil {
			problems = append(problems, "End date is invalid.")
		} else {
			if endDateTypes[d.Type] && endDate.Before(startDate) {
				problems = append(problems, "End date must be on or after the start date.")
			}
			if endTimeTypes[d.Type] && d.EndTime != "" {
				endAt := atClockTime(endDate, parseClockTime(d.EndTime, startParts))
				end = &endAt
			}
		}
	}

	if len(problems) > 0 {
		return Event{}, &ValidationError{Problems: problems}
	}
	if end != nil && end.Before(start) {
		return Event{}, &ValidationError{Problems: []string{"End time must be after the start time."}}
	}

	owner := DefaultOwner
	if person != nil {
		owner = Participant{Id: person.Id, PersonId: person.PersonId, Name: person.Name, Email: person.Email, Role: Organizer}
		title = personTitle(d.Type, person.Name)
	} else if title == "" {
		title = "Untitled Event"
	}

	var attendees []Participant
	if attendeeTypes[d.Type] {
		for _, a := range ParseAttendees(d.AttendeesInput) {
			if !sameAsOwner(a, owner) {
				attendees = append(attendees, a)
			}
		}
	}

	var location, recurrence string
	if locationTypes[d.Type] {
		location = strings.TrimSpace(d.Location)
	}
	if recurrenceTypes[d.Type] {
		recurrence = strings.TrimSpace(d.RecurrenceRule)
	}

	return Event{
		Id:             uuid.NewString(),
		Title:          title,
		StartsAt:       start,
		EndsAt:         end,
		IsAllDay:       isAllDay,
		Type:           d.Type,
		Description:    strings.TrimSpace(d.Description),
		Location:       location,
		TimeZone:       zoneName,
		RecurrenceRule: Cadence(recurrence),
		Owner:          owner,
		Attendees:      attendees,
		Source:         Source{Provider: ProviderLocal},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ParseAttendees reads one attendee per line in the form "Name <email>".
// Either part may be missing.
func ParseAttendees(input string) []Participant {
	var attendees []Participant
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		name := line
		email := ""
		if match := attendeeEmailPattern.FindStringSubmatchIndex(line); match != nil {
			email = strings.TrimSpace(line[match[2]:match[3]])
			name = strings.TrimSpace(line[:match[0]] + line[match[1]:])
		}
		if name == "" {
			name = email
		}
		if name == "" {
			name = "Attendee"
		}
		attendees = append(attendees, Participant{Id: uuid.NewString(), Name: name, Email: email})
	}
	return attendees
}

func sameAsOwner(a, owner Participant) bool {
	if a.Email != "" && owner.Email != "" {
		return strings.EqualFold(a.Email, owner.Email)
	}
	if a.Id != "" && a.Id == owner.Id {
		return true
	}
	return a.Name == owner.Name
}

func personTitle(t Type, name string) string {
	switch t {
	case Birthday:
		return name + "'s Birthday"
	case TimeOff:
		return name + " Time Off"
	default:
		return name + "'s Work Anniversary"
	}
}

func parseClockTime(input string, fallback clockTime) clockTime {
	if input == "" {
		return fallback
	}
	hourPart, minutePart, _ := strings.Cut(input, ":")
	hours, err := strconv.Atoi(hourPart)
	if err != nil {
		return fallback
	}
	minutes, err := strconv.Atoi(minutePart)
	if err != nil {
		return fallback
	}
	return clockTime{hours: hours, minutes: minutes}
}

func atClockTime(day time.Time, t clockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.hours, t.minutes, 0, 0, day.Location())
}
