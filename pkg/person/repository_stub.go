package person

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type RepositoryStub struct {
	mu     sync.RWMutex
	people map[string]Person
}

func NewRepositoryStub(people ...Person) *RepositoryStub {
	stub := &RepositoryStub{people: make(map[string]Person)}
	for _, p := range people {
		stub.people[p.Id] = p
	}
	return stub
}

func (r *RepositoryStub) GetPeople(ctx context.Context) ([]Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	people := make([]Person, 0, len(r.people))
	for _, p := range r.people {
		people = append(people, p)
	}
	sort.Slice(people, func(i, j int) bool {
		if people[i].Name == people[j].Name {
			return people[i].Id < people[j].Id
		}
		return people[i].Name < people[j].Name
	})
	return people, nil
}

func (r *RepositoryStub) GetPerson(ctx context.Context, id string) (Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.people[id]
	if !ok {
		return Person{}, ErrPersonNotFound
	}
	return p, nil
}

func (r *RepositoryStub) StorePerson(ctx context.Context, p Person) (Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Email != "" {
		for id, existing := range r.people {
			if id != p.Id && strings.EqualFold(existing.Email, p.Email) {
				return Person{}, ErrDuplicateEmail
			}
		}
	}
	r.people[p.Id] = p
	return p, nil
}

func (r *RepositoryStub) DeletePerson(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.people[id]; !ok {
		return ErrPersonNotFound
	}
	delete(r.people, id)
	return nil
}
