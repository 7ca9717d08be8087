package cell

import (
	"context"
	"fmt"
	"time"

	"github.com/teamcal/teamcal/pkg/grid"
	"github.com/teamcal/teamcal/pkg/recurrence"
)

type DayReader interface {
	Metadata() grid.Metadata
	Day(ctx context.Context, date time.Time) (grid.Day, error)
}

type Row struct {
	Item      Item
	Highlight Highlight
}

// DayPlan is the rendered content of one day cell.
type DayPlan struct {
	Day       grid.Day
	Rows      []Row
	Remaining int
}

func (p DayPlan) MoreLabel() string {
	if p.Remaining <= 0 {
		return ""
	}
	return MoreLabel(p.Remaining)
}

// PlanDay groups the day's occurrences and keeps the rows that fit.
func PlanDay(day grid.Day, available float64, metrics Metrics, selected *recurrence.Occurrence) DayPlan {
	items := Group(day.Date, day.Occurrences)
	plan := PlanOverflow(len(items), available, metrics)
	rows := make([]Row, 0, plan.Visible)
	for _, item := range items[:plan.Visible] {
		rows = append(rows, Row{Item: item, Highlight: HighlightFor(item, selected)})
	}
	return DayPlan{Day: day, Rows: rows, Remaining: plan.Remaining}
}

type Service struct {
	days    DayReader
	metrics Metrics
}

func NewService(days DayReader, metrics Metrics) *Service {
	return &Service{days: days, metrics: metrics}
}

func (s *Service) Metrics() Metrics {
	return s.metrics
}

func (s *Service) Location() *time.Location {
	return s.days.Metadata().Location
}

func (s *Service) Plan(ctx context.Context, date time.Time, available float64, selected *recurrence.Occurrence) (DayPlan, error) {
	day, err := s.days.Day(ctx, date)
	if err != nil {
		return DayPlan{}, fmt.Errorf("failed to load day %s: %w", grid.DateKey(date), err)
	}
	return PlanDay(day, available, s.metrics, selected), nil
}

// Items returns every grouped row of the day without overflow trimming.
func (s *Service) Items(ctx context.Context, date time.Time) (grid.Day, []Item, error) {
	day, err := s.days.Day(ctx, date)
	if err != nil {
		return grid.Day{}, nil, fmt.Errorf("failed to load day %s: %w", grid.DateKey(date), err)
	}
	return day, Group(day.Date, day.Occurrences), nil
}
