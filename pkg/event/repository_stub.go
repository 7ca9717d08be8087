package event

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	events map[string]Event
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{events: make(map[string]Event)}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	snapshot := make(map[string]Event, len(r.events))
	for k, v := range r.events {
		snapshot[k] = v
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.events = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.Id] = event.Clone()
	return event.Clone(), nil
}

func (r *RepositoryStub) GetEvent(ctx context.Context, id string) (Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	return e.Clone(), nil
}

func (r *RepositoryStub) GetEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Event
	for _, e := range r.events {
		if e.StartsAt.After(to) {
			continue
		}
		if e.IsRecurring() || !e.End().Before(from) {
			result = append(result, e.Clone())
		}
	}
	sortEvents(result)
	return result, nil
}

func (r *RepositoryStub) GetAllEvents(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		result = append(result, e.Clone())
	}
	sortEvents(result)
	return result, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, event Event) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.events[event.Id]
	if !ok {
		return Event{}, ErrEventNotFound
	}
	event.CreatedAt = existing.CreatedAt
	r.events[event.Id] = event.Clone()
	return event.Clone(), nil
}

func (r *RepositoryStub) UpsertEvent(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.Id] = event.Clone()
	return nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *RepositoryStub) CountEvents(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events), nil
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make(map[string]Event)
}

func sortEvents(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartsAt.Equal(events[j].StartsAt) {
			return events[i].Id < events[j].Id
		}
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
}
