package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/utils"
	"github.com/teamcal/teamcal/pkg/event"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type Metadata struct {
	BaseDate       time.Time
	Today          time.Time
	TotalWeeks     int
	TodayWeekIndex int
	WeekStart      time.Weekday
	Location       *time.Location
}

type Service interface {
	Metadata() Metadata
	Days(ctx context.Context, startWeek, weekCount int, selected []time.Time) ([]Day, error)
	Day(ctx context.Context, date time.Time) (Day, error)
	Inspector(ctx context.Context, selected []time.Time) ([]Section, error)
}

// EventReader is the part of the event service the grid reads from.
type EventReader interface {
	GetEvents(ctx context.Context, from, to time.Time) ([]event.Event, error)
}

type ServiceImpl struct {
	events   EventReader
	clock    utils.Clock
	calendar config.Calendar
	location *time.Location
}

func NewService(events EventReader, clock utils.Clock, calendar config.Calendar) *ServiceImpl {
	return &ServiceImpl{
		events:   events,
		clock:    clock,
		calendar: calendar,
		location: calendar.Location(),
	}
}

func (s *ServiceImpl) Location() *time.Location {
	return s.location
}

func (s *ServiceImpl) Metadata() Metadata {
	today := s.clock.Now().In(s.location)
	base := BaseDate(today, s.calendar.WeekStartDay(), s.calendar.WeeksBackward)
	return Metadata{
		BaseDate:       base,
		Today:          StartOfDay(today),
		TotalWeeks:     s.calendar.TotalWeeks(),
		TodayWeekIndex: WeekIndexForDate(base, today),
		WeekStart:      s.calendar.WeekStartDay(),
		Location:       s.location,
	}
}

// Days builds weekCount weeks starting at startWeek, clamped to the grid.
func (s *ServiceImpl) Days(ctx context.Context, startWeek, weekCount int, selected []time.Time) ([]Day, error) {
	meta := s.Metadata()
	startWeek = min(max(startWeek, 0), meta.TotalWeeks)
	weekCount = min(max(weekCount, 0), meta.TotalWeeks-startWeek)

	days, err := s.build(ctx, meta, startWeek, weekCount)
	if err != nil {
		return nil, err
	}
	return ApplySelection(days, selected), nil
}

// Day returns the single day containing date, even outside the grid extent.
func (s *ServiceImpl) Day(ctx context.Context, date time.Time) (Day, error) {
	meta := s.Metadata()
	weekIndex := WeekIndexForDate(meta.BaseDate, date)
	days, err := s.build(ctx, meta, weekIndex, 1)
	if err != nil {
		return Day{}, err
	}
	for _, day := range days {
		if SameDay(day.Date, date.In(s.location)) {
			return day, nil
		}
	}
	return Day{}, fmt.Errorf("day %s not found in week %d", DateKey(date), weekIndex)
}

func (s *ServiceImpl) Inspector(ctx context.Context, selected []time.Time) ([]Section, error) {
	meta := s.Metadata()
	rangeStart, rangeEnd := RangeFor(meta.BaseDate, 0, meta.TotalWeeks)
	events, err := s.events.GetEvents(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read events for inspector: %w", err)
	}
	occurrences := recurrence.Expand(events, rangeStart, rangeEnd)
	return InspectorSections(occurrences, selected, s.location), nil
}

func (s *ServiceImpl) build(ctx context.Context, meta Metadata, startWeek, weekCount int) ([]Day, error) {
	rangeStart, rangeEnd := RangeFor(meta.BaseDate, startWeek, weekCount)
	events, err := s.events.GetEvents(ctx, rangeStart, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read events for grid: %w", err)
	}
	return Build(BuildOptions{
		BaseDate:  meta.BaseDate,
		Today:     meta.Today,
		StartWeek: startWeek,
		WeekCount: weekCount,
		Events:    events,
	}), nil
}
