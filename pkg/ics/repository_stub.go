package ics

import (
	"context"
	"sort"
	"sync"
)

type RepositoryStub struct {
	mu     sync.Mutex
	states map[string]FeedState
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{states: make(map[string]FeedState)}
}

func (r *RepositoryStub) GetState(ctx context.Context, feedId string) (FeedState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.states[feedId]; ok {
		return s, nil
	}
	return FeedState{FeedId: feedId}, nil
}

func (r *RepositoryStub) GetStates(ctx context.Context) ([]FeedState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make([]FeedState, 0, len(r.states))
	for _, s := range r.states {
		states = append(states, s)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].FeedId < states[j].FeedId })
	return states, nil
}

func (r *RepositoryStub) StoreState(ctx context.Context, state FeedState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.FeedId] = state
	return nil
}
