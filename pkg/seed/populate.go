package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/person"
)

var templates = map[event.Type][]string{
	event.TimeOff:         {"Vacation", "Sick Leave", "Personal Day", "Mental Health Day"},
	event.Birthday:        {"Birthday Celebration", "Birthday Party"},
	event.WorkAnniversary: {"Work Anniversary", "Anniversary Celebration"},
	event.CompanyEvent: {
		"All Hands Meeting", "Team Standup", "Sprint Planning", "Retrospective", "Product Demo",
		"Engineering Sync", "Design Review", "Company Happy Hour", "Team Lunch", "Workshop",
	},
	event.Deadline: {"Project Deadline", "Release Deadline", "Sprint End", "Feature Launch", "Documentation Due"},
}

var formats = []string{"In-person", "Virtual", "Hybrid"}

// PopulateMonth generates 3 to 5 events for every day of the month of now.
// Weekdays always get a company event.
func PopulateMonth(now time.Time, people []person.Person, rnd *rand.Rand) []event.Event {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var events []event.Event
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		count := between(rnd, 3, 5)
		types := make([]event.Type, 0, count)
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			types = append(types, event.CompanyEvent)
		}
		for len(types) < count {
			types = append(types, pickType(rnd))
		}
		for _, t := range types {
			events = append(events, eventForDay(day, people, t, rnd))
		}
	}
	return events
}

func pickType(rnd *rand.Rand) event.Type {
	r := rnd.Float64()
	switch {
	case r < 0.5:
		return event.CompanyEvent
	case r < 0.7:
		return event.Deadline
	case r < 0.85:
		return event.TimeOff
	case r < 0.95:
		return event.Birthday
	}
	return event.WorkAnniversary
}

func eventForDay(day time.Time, people []person.Person, t event.Type, rnd *rand.Rand) event.Event {
	title := pick(rnd, templates[t])
	e := event.Event{
		Id:     "event-" + uuid.NewString(),
		Title:  title,
		Type:   t,
		Owner:  event.DefaultOwner,
		Source: event.Source{Provider: event.ProviderLocal},
	}

	allDay := t == event.Birthday || t == event.WorkAnniversary || t == event.TimeOff || rnd.Float64() < 0.2
	if allDay {
		end := grid.EndOfDay(day)
		e.IsAllDay = true
		e.StartsAt = grid.StartOfDay(day)
		e.EndsAt = &end
	} else {
		hour := between(rnd, 9, 17)
		minute := between(rnd, 0, 1) * 30
		e.StartsAt = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
		end := e.StartsAt.Add(time.Duration(between(rnd, 30, 120)) * time.Minute)
		e.EndsAt = &end
	}
	if t == event.CompanyEvent {
		e.Description = title + " - " + pick(rnd, formats)
	}

	participants := randomParticipants(rnd, people, 1, 5)
	if len(participants) > 0 {
		e.Owner = participants[0]
		e.Owner.Role = event.Organizer
		e.Attendees = participants[1:]
	}
	return e
}

func randomParticipants(rnd *rand.Rand, people []person.Person, minCount, maxCount int) []event.Participant {
	if len(people) == 0 {
		return nil
	}
	count := between(rnd, min(minCount, len(people)), min(maxCount, len(people)))
	shuffled := append([]person.Person(nil), people...)
	rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	participants := make([]event.Participant, 0, count)
	for _, p := range shuffled[:count] {
		participant := person.ToParticipant(p, event.Attendee)
		participant.Id = "participant-" + p.Id
		participants = append(participants, participant)
	}
	return participants
}

func between(rnd *rand.Rand, lo, hi int) int {
	return lo + rnd.Intn(hi-lo+1)
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.Intn(len(values))]
}

type EventStore interface {
	CountEvents(ctx context.Context) (int, error)
	UpsertEvents(ctx context.Context, events []event.Event) (int, error)
}

type PeopleStore interface {
	ListPeople(ctx context.Context) ([]person.Person, error)
	CreatePerson(ctx context.Context, p person.Person) (person.Person, error)
}

// Populator fills an empty store with demo data.
type Populator struct {
	events    EventStore
	people    PeopleStore
	clock     utils.Clock
	weekStart time.Weekday
	rnd       *rand.Rand
}

func NewPopulator(events EventStore, people PeopleStore, clock utils.Clock, weekStart time.Weekday, rnd *rand.Rand) *Populator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}
	return &Populator{events: events, people: people, clock: clock, weekStart: weekStart, rnd: rnd}
}

// Populate stores the default roster when there is none, then the demo
// events and a generated month. It does nothing when events already exist.
func (p *Populator) Populate(ctx context.Context) (int, error) {
	existing, err := p.events.CountEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	if existing > 0 {
		log.Infof("Events storage already contains %d events, skipping population", existing)
		return 0, nil
	}

	people, err := p.ensurePeople(ctx)
	if err != nil {
		return 0, err
	}

	now := p.clock.Now()
	events := append(DemoEvents(now, p.weekStart), PopulateMonth(now, people, p.rnd)...)
	count, err := p.events.UpsertEvents(ctx, events)
	if err != nil {
		return 0, err
	}
	log.Infof("Populated %d events for %s", count, now.Format("January 2006"))
	return count, nil
}

func (p *Populator) ensurePeople(ctx context.Context) ([]person.Person, error) {
	people, err := p.people.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	if len(people) > 0 {
		return people, nil
	}

	defaults := DefaultPeople()
	for _, d := range defaults {
		if _, err := p.people.CreatePerson(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to store default person %s: %w", d.Id, err)
		}
	}
	log.Infof("Initialized %d default people", len(defaults))
	return defaults, nil
}
