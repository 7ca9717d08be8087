package viewport

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/event_bus"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/grid"
)

type contextKey string

const SessionKey contextKey = "viewportSession"

var ErrSessionNotFound = errors.New("viewport session not found")

func WithSession(ctx context.Context, sessionId string) context.Context {
	return context.WithValue(ctx, SessionKey, sessionId)
}

// SessionFromContext returns the viewport session id a request was made for.
func SessionFromContext(ctx context.Context) (string, bool) {
	sessionId, ok := ctx.Value(SessionKey).(string)
	return sessionId, ok && sessionId != ""
}

// GridInfo supplies the grid extent and today's position in it.
type GridInfo interface {
	Metadata() grid.Metadata
}

type session struct {
	controller *Controller
	lastSeen   time.Time
}

// SessionStore keeps one Controller per connected grid client.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	grid     GridInfo
	cfg      config.Viewport
	clock    utils.Clock
}

func NewSessionStore(gridInfo GridInfo, cfg config.Viewport, clock utils.Clock) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		grid:     gridInfo,
		cfg:      cfg,
		clock:    clock,
	}
}

// Subscribe scrolls the originating session to events it creates or edits.
func (s *SessionStore) Subscribe(bus *event_bus.EventBus) {
	handler := func(e event_bus.EventT[event_bus.CalendarEventChanged]) error {
		sessionId, ok := SessionFromContext(e.Context())
		if !ok {
			return nil
		}
		controller, err := s.Get(sessionId)
		if err != nil {
			log.Debugf("event %s changed for unknown viewport session %s", e.Data.EventId, sessionId)
			return nil
		}
		weekIndex := s.WeekIndexFor(e.Data.StartsAt)
		r := controller.EnsureVisible(weekIndex)
		log.Debugf("viewport %s: showing week %d for event %s, range [%d, %d)", sessionId, weekIndex, e.Data.EventId, r.Start, r.End)
		return nil
	}
	event_bus.SubscribeTyped(bus, event_bus.CalendarEventCreated, handler)
	event_bus.SubscribeTyped(bus, event_bus.CalendarEventUpdated, handler)
}

func (s *SessionStore) WeekIndexFor(t time.Time) int {
	return grid.WeekIndexForDate(s.grid.Metadata().BaseDate, t)
}

// ParseDate reads a yyyy-mm-dd date in the grid's location.
func (s *SessionStore) ParseDate(value string) (time.Time, error) {
	return grid.ParseDate(value, s.grid.Metadata().Location)
}

// Create opens a session whose window starts on the current week.
func (s *SessionStore) Create() (string, *Controller) {
	meta := s.grid.Metadata()
	controller := NewController(Options{
		TotalWeeks:   meta.TotalWeeks,
		InitialWeeks: s.cfg.InitialWeeks,
		Buffer:       s.cfg.Buffer,
		InitialStart: meta.TodayWeekIndex,
		TopInset:     float64(s.cfg.TopInset),
	}, meta.Today)

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{controller: controller, lastSeen: s.clock.Now()}
	s.mu.Unlock()
	log.Debugf("created viewport session %s", id)
	return id, controller
}

func (s *SessionStore) Get(id string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = s.clock.Now()
	return entry.controller, nil
}

func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Prune drops sessions not used for longer than maxIdle and returns how many
// were removed.
func (s *SessionStore) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.clock.Now().Add(-maxIdle)
	removed := 0
	for id, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
