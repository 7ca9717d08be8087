package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/event_bus"
	"github.com/teamcal/teamcal/internal/utils"
)

type Service interface {
	GetEvents(ctx context.Context, from, to time.Time) ([]Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, event Event) (Event, error)
	CreateFromDraft(ctx context.Context, draft Draft) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
	// UpsertEvents stores imported events keyed by id without publishing
	// created/updated notifications.
	UpsertEvents(ctx context.Context, events []Event) (int, error)
	CountEvents(ctx context.Context) (int, error)
}

// PeopleReader supplies the roster used to resolve person-bound drafts.
type PeopleReader interface {
	Participants(ctx context.Context) ([]Participant, error)
}

type ServiceImpl struct {
	repo     Repository
	people   PeopleReader
	eventBus *event_bus.EventBus
	clock    utils.Clock
	location *time.Location
}

func NewService(repo Repository, people PeopleReader, eventBus *event_bus.EventBus, clock utils.Clock, location *time.Location) *ServiceImpl {
	if location == nil {
		location = time.Local
	}
	return &ServiceImpl{repo: repo, people: people, eventBus: eventBus, clock: clock, location: location}
}

func (s *ServiceImpl) GetEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	if to.Before(from) {
		return nil, &ValidationError{Problems: []string{"'to' must not be before 'from'."}}
	}
	return s.repo.GetEvents(ctx, from, to)
}

func (s *ServiceImpl) ListEvents(ctx context.Context) ([]Event, error) {
	return s.repo.GetAllEvents(ctx)
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id string) (Event, error) {
	return s.repo.GetEvent(ctx, id)
}

func (s *ServiceImpl) CreateEvent(ctx context.Context, event Event) (Event, error) {
	if err := Validate(event); err != nil {
		return Event{}, err
	}
	now := s.clock.Now()
	if event.Id == "" {
		event.Id = uuid.NewString()
	}
	if event.Source.Provider == "" {
		event.Source.Provider = ProviderLocal
	}
	if event.Owner.Id == "" && event.Owner.Name == "" {
		event.Owner = DefaultOwner
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	stored, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	s.publish(ctx, event_bus.CalendarEventCreated, stored)
	return stored, nil
}

func (s *ServiceImpl) CreateFromDraft(ctx context.Context, draft Draft) (Event, error) {
	var people []Participant
	if RequiresPerson(draft.Type) && s.people != nil {
		var err error
		people, err = s.people.Participants(ctx)
		if err != nil {
			return Event{}, fmt.Errorf("failed to read people: %w", err)
		}
	}

	event, err := BuildFromDraft(draft, people, s.clock.Now(), s.location)
	if err != nil {
		return Event{}, err
	}

	stored, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to store event: %w", err)
	}
	s.publish(ctx, event_bus.CalendarEventCreated, stored)
	return stored, nil
}

func (s *ServiceImpl) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	if err := Validate(event); err != nil {
		return Event{}, err
	}
	event.UpdatedAt = s.clock.Now()
	updated, err := s.repo.UpdateEvent(ctx, event)
	if err != nil {
		return Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	s.publish(ctx, event_bus.CalendarEventUpdated, updated)
	return updated, nil
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	existing, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.publish(ctx, event_bus.CalendarEventDeleted, existing)
	return nil
}

func (s *ServiceImpl) UpsertEvents(ctx context.Context, events []Event) (int, error) {
	now := s.clock.Now()
	count := 0
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		for _, e := range events {
			if err := Validate(e); err != nil {
				log.Warnf("skipping invalid imported event %s: %v", e.Id, err)
				continue
			}
			if e.CreatedAt.IsZero() {
				e.CreatedAt = now
			}
			e.UpdatedAt = now
			if err := repo.UpsertEvent(ctx, e); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert events: %w", err)
	}
	return count, nil
}

func (s *ServiceImpl) CountEvents(ctx context.Context) (int, error) {
	return s.repo.CountEvents(ctx)
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, e Event) {
	if s.eventBus == nil {
		return
	}
	payload := event_bus.CalendarEventChanged{
		EventId:        e.Id,
		Title:          e.Title,
		StartsAt:       e.StartsAt,
		EndsAt:         e.EndsAt,
		IsAllDay:       e.IsAllDay,
		RecurrenceRule: string(e.RecurrenceRule),
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, payload)); err != nil {
		log.Errorf("failed to publish %s for event %s: %v", eventType, e.Id, err)
	}
}

// Validate checks the fields every stored event needs.
func Validate(e Event) error {
	var problems []string
	if strings.TrimSpace(e.Title) == "" {
		problems = append(problems, "Title is required.")
	}
	if !e.Type.Valid() {
		problems = append(problems, fmt.Sprintf("Event type %q is invalid.", e.Type))
	}
	if e.StartsAt.IsZero() {
		problems = append(problems, "Start is required.")
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		problems = append(problems, "End time must be after the start time.")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
