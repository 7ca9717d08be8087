package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamcal/teamcal/internal/event_bus"
	"github.com/teamcal/teamcal/internal/utils"
)

type peopleStub struct {
	participants []Participant
	err          error
}

func (p peopleStub) Participants(ctx context.Context) ([]Participant, error) {
	return p.participants, p.err
}

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupService() (*ServiceImpl, *RepositoryStub, *event_bus.EventBus) {
	repo := NewRepositoryStub()
	bus := event_bus.NewEventBus()
	service := NewService(repo, peopleStub{participants: roster}, bus, utils.NewMockClock(now), time.UTC)
	return service, repo, bus
}

func timedEvent(id string, start time.Time, duration time.Duration) Event {
	end := start.Add(duration)
	return Event{
		Id:       id,
		Title:    "Meeting " + id,
		StartsAt: start,
		EndsAt:   &end,
		Type:     CompanyEvent,
		Owner:    DefaultOwner,
	}
}

func TestServiceImpl_CreateEvent(t *testing.T) {
	t.Run("should store event and publish created notification", func(t *testing.T) {
		// given
		service, repo, bus := setupService()
		var published []event_bus.CalendarEventChanged
		event_bus.SubscribeTyped(bus, event_bus.CalendarEventCreated, func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
			published = append(published, e.Data)
			return nil
		})
		e := timedEvent("", time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), time.Hour)

		// when
		created, err := service.CreateEvent(context.Background(), e)

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, created.Id)
		assert.Equal(t, now, created.CreatedAt)
		assert.Equal(t, ProviderLocal, created.Source.Provider)
		stored, err := repo.GetEvent(context.Background(), created.Id)
		require.NoError(t, err)
		assert.Equal(t, created.Title, stored.Title)
		require.Len(t, published, 1)
		assert.Equal(t, created.Id, published[0].EventId)
	})

	t.Run("should reject event without title", func(t *testing.T) {
		service, _, _ := setupService()
		e := timedEvent("e-1", time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), time.Hour)
		e.Title = " "

		_, err := service.CreateEvent(context.Background(), e)

		assert.True(t, IsValidationError(err))
	})

	t.Run("should reject end before start", func(t *testing.T) {
		service, _, _ := setupService()
		e := timedEvent("e-1", time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), -time.Hour)

		_, err := service.CreateEvent(context.Background(), e)

		assert.True(t, IsValidationError(err))
	})
}

func TestServiceImpl_CreateFromDraft(t *testing.T) {
	t.Run("should resolve person from roster", func(t *testing.T) {
		service, _, _ := setupService()

		created, err := service.CreateFromDraft(context.Background(), Draft{Type: Birthday, PersonId: "person-priya-patel", StartDate: "2024-03-10"})

		require.NoError(t, err)
		assert.Equal(t, "Priya Patel's Birthday", created.Title)
		assert.Equal(t, now, created.CreatedAt)
	})

	t.Run("should fail when roster cannot be read", func(t *testing.T) {
		repo := NewRepositoryStub()
		service := NewService(repo, peopleStub{err: errors.New("db down")}, nil, utils.NewMockClock(now), time.UTC)

		_, err := service.CreateFromDraft(context.Background(), Draft{Type: TimeOff, PersonId: "x", StartDate: "2024-03-10"})

		require.Error(t, err)
		assert.False(t, IsValidationError(err))
	})
}

func TestServiceImpl_GetEvents(t *testing.T) {
	// given
	service, repo, _ := setupService()
	ctx := context.Background()
	inside := timedEvent("inside", time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), time.Hour)
	before := timedEvent("before", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), time.Hour)
	recurring := timedEvent("recurring", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Hour)
	recurring.RecurrenceRule = Weekly
	future := timedEvent("future", time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), time.Hour)
	for _, e := range []Event{inside, before, recurring, future} {
		_, err := repo.StoreEvent(ctx, e)
		require.NoError(t, err)
	}

	// when
	events, err := service.GetEvents(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))

	// then
	require.NoError(t, err)
	var ids []string
	for _, e := range events {
		ids = append(ids, e.Id)
	}
	assert.Equal(t, []string{"recurring", "inside"}, ids)

	_, err = service.GetEvents(ctx, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, IsValidationError(err))
}

func TestServiceImpl_UpdateAndDelete(t *testing.T) {
	t.Run("should update existing event", func(t *testing.T) {
		// given
		service, _, bus := setupService()
		ctx := context.Background()
		created, err := service.CreateEvent(ctx, timedEvent("e-1", time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), time.Hour))
		require.NoError(t, err)
		updates := 0
		bus.Subscribe(event_bus.CalendarEventUpdated, func(e event_bus.Event) error { updates++; return nil })
		created.Title = "Renamed"

		// when
		updated, err := service.UpdateEvent(ctx, created)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, 1, updates)
	})

	t.Run("should return not found when updating missing event", func(t *testing.T) {
		service, _, _ := setupService()

		_, err := service.UpdateEvent(context.Background(), timedEvent("missing", now, time.Hour))

		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("should delete event", func(t *testing.T) {
		service, repo, _ := setupService()
		ctx := context.Background()
		_, err := service.CreateEvent(ctx, timedEvent("e-1", now, time.Hour))
		require.NoError(t, err)

		require.NoError(t, service.DeleteEvent(ctx, "e-1"))

		count, _ := repo.CountEvents(ctx)
		assert.Equal(t, 0, count)
		assert.ErrorIs(t, service.DeleteEvent(ctx, "e-1"), ErrEventNotFound)
	})
}

func TestServiceImpl_UpsertEvents(t *testing.T) {
	// given
	service, repo, _ := setupService()
	ctx := context.Background()
	first := timedEvent("ics-1", time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), time.Hour)
	invalid := timedEvent("ics-2", time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC), time.Hour)
	invalid.Type = "unknown"

	// when
	count, err := service.UpsertEvents(ctx, []Event{first, invalid})
	require.NoError(t, err)
	first.Title = "Changed"
	_, err = service.UpsertEvents(ctx, []Event{first})
	require.NoError(t, err)

	// then
	assert.Equal(t, 1, count)
	stored, err := repo.GetEvent(ctx, "ics-1")
	require.NoError(t, err)
	assert.Equal(t, "Changed", stored.Title)
	total, _ := repo.CountEvents(ctx)
	assert.Equal(t, 1, total)
}
