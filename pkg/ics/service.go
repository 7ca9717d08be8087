package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/event"
)

// EventStore is the part of the event service the importer writes to.
type EventStore interface {
	ListEvents(ctx context.Context) ([]event.Event, error)
	UpsertEvents(ctx context.Context, events []event.Event) (int, error)
}

type Service struct {
	events   EventStore
	states   Repository
	fetcher  *Fetcher
	clock    utils.Clock
	location *time.Location
}

func NewService(events EventStore, states Repository, fetcher *Fetcher, clock utils.Clock, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{events: events, states: states, fetcher: fetcher, clock: clock, location: location}
}

// Import parses an uploaded ICS payload and upserts its events.
func (s *Service) Import(ctx context.Context, r io.Reader, feedID string) (int, error) {
	events, err := Parse(r, feedID, s.location)
	if err != nil {
		return 0, err
	}
	return s.events.UpsertEvents(ctx, events)
}

// ImportFeed fetches one configured feed. An unchanged feed imports nothing.
func (s *Service) ImportFeed(ctx context.Context, feed config.IcsFeed) (int, error) {
	state, err := s.states.GetState(ctx, feed.Id)
	if err != nil {
		return 0, err
	}
	result, err := s.fetcher.Fetch(ctx, feed.Url, state.ETag)
	if err != nil {
		return 0, fmt.Errorf("feed %s: %w", feed.Id, err)
	}

	now := s.clock.Now()
	count := 0
	if !result.NotModified {
		count, err = s.Import(ctx, bytes.NewReader(result.Body), feed.Id)
		if err != nil {
			return 0, fmt.Errorf("feed %s: %w", feed.Id, err)
		}
		state.ETag = result.ETag
		state.EventCount = count
	}
	state.LastSyncedAt = &now
	if err := s.states.StoreState(ctx, state); err != nil {
		return count, err
	}
	return count, nil
}

// ImportFeeds imports every feed and keeps going past failing ones.
func (s *Service) ImportFeeds(ctx context.Context, feeds []config.IcsFeed) error {
	var errs []error
	for _, feed := range feeds {
		count, err := s.ImportFeed(ctx, feed)
		if err != nil {
			log.Errorf("failed to import ICS feed %s: %v", feed.Id, err)
			errs = append(errs, err)
			continue
		}
		log.Infof("Imported %d events from ICS feed %s", count, feed.Id)
	}
	return errors.Join(errs...)
}

func (s *Service) Feeds(ctx context.Context) ([]FeedState, error) {
	return s.states.GetStates(ctx)
}

// Export renders every stored event.
func (s *Service) Export(ctx context.Context) (string, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list events: %w", err)
	}
	return Export(events, s.clock.Now()), nil
}
