package viewport

import (
	"sync"
	"time"
)

const MonthLabelLayout = "January 2006"

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// WeekRange is a half-open range of week indexes, 0 <= Start < End <= total.
type WeekRange struct {
	Start int
	End   int
}

func (r WeekRange) Contains(weekIndex int) bool {
	return weekIndex >= r.Start && weekIndex < r.End
}

func (r WeekRange) Len() int {
	return r.End - r.Start
}

type Options struct {
	TotalWeeks   int
	InitialWeeks int
	Buffer       int
	// InitialStart is the week the window opens on, usually the current week.
	InitialStart int
	// TopInset is subtracted from every observed row offset.
	TopInset float64
}

// RowObservation reports a week row entering or leaving the scroll area.
type RowObservation struct {
	WeekIndex      int
	Date           time.Time
	IsIntersecting bool
	RelativeTop    float64
}

type visibleRow struct {
	weekIndex int
	top       float64
	date      time.Time
}

type State struct {
	Range        WeekRange
	TotalWeeks   int
	MonthLabel   string
	HasMoreUp    bool
	HasMoreDown  bool
	RenderWindow WeekRange
}

// Controller holds the materialized week window of one scrolling grid and the
// month shown in its header.
type Controller struct {
	mu        sync.Mutex
	total     int
	width     int
	buffer    int
	topInset  float64
	weekRange WeekRange
	rows      []visibleRow
	label     time.Time
}

func NewController(opts Options, today time.Time) *Controller {
	total := max(opts.TotalWeeks, 1)
	width := max(opts.InitialWeeks, 1)
	start := min(max(opts.InitialStart, 0), total-1)
	return &Controller{
		total:     total,
		width:     width,
		buffer:    max(opts.Buffer, 0),
		topInset:  opts.TopInset,
		weekRange: WeekRange{Start: start, End: min(total, start+width)},
		label:     today,
	}
}

func (c *Controller) Range() WeekRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weekRange
}

// EnsureVisible recentres the window on weekIndex unless it is already
// materialized. Out of range indexes are clamped to the grid.
func (c *Controller) EnsureVisible(weekIndex int) WeekRange {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := min(max(weekIndex, 0), c.total-1)
	if c.weekRange.Contains(index) {
		return c.weekRange
	}

	maxStart := max(0, c.total-c.width)
	start := min(max(index-c.width/2, 0), maxStart)
	end := min(c.total, max(start+c.width, index+1))
	c.weekRange = WeekRange{Start: start, End: end}
	return c.weekRange
}

// Expand grows the window by the buffer in the given direction.
func (c *Controller) Expand(direction Direction) WeekRange {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch direction {
	case Up:
		if c.weekRange.Start == 0 {
			return c.weekRange
		}
		start := max(0, c.weekRange.Start-c.buffer)
		end := min(c.total, max(c.weekRange.End, start+c.width))
		c.weekRange = WeekRange{Start: start, End: end}
	case Down:
		if c.weekRange.End == c.total {
			return c.weekRange
		}
		c.weekRange.End = min(c.total, c.weekRange.End+c.buffer)
	}
	return c.weekRange
}

// ObserveRow updates the set of visible rows and returns the month label.
// The topmost row at or below the top edge wins; when every row is above the
// edge the lowest of them wins.
func (c *Controller) ObserveRow(obs RowObservation) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	top := obs.RelativeTop - c.topInset
	position := -1
	for i, row := range c.rows {
		if row.weekIndex == obs.WeekIndex {
			position = i
			break
		}
	}
	switch {
	case obs.IsIntersecting && position >= 0:
		c.rows[position].top = top
		c.rows[position].date = obs.Date
	case obs.IsIntersecting:
		c.rows = append(c.rows, visibleRow{weekIndex: obs.WeekIndex, top: top, date: obs.Date})
	case position >= 0:
		c.rows = append(c.rows[:position], c.rows[position+1:]...)
	}

	if len(c.rows) == 0 {
		c.label = obs.Date
		return c.label.Format(MonthLabelLayout)
	}

	candidate := c.rows[0]
	for _, row := range c.rows[1:] {
		switch {
		case candidate.top >= 0 && row.top >= 0:
			if row.top < candidate.top {
				candidate = row
			}
		case candidate.top >= 0:
			// rows above the edge never replace one below it
		case row.top >= 0:
			candidate = row
		case row.top > candidate.top:
			candidate = row
		}
	}
	c.label = candidate.date
	return c.label.Format(MonthLabelLayout)
}

func (c *Controller) MonthLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label.Format(MonthLabelLayout)
}

func (c *Controller) HasMoreUp() bool {
	return c.Range().Start > 0
}

func (c *Controller) HasMoreDown() bool {
	return c.Range().End < c.total
}

// RenderWindow widens the materialized range by margin weeks on each side.
func (c *Controller) RenderWindow(margin int) WeekRange {
	r := c.Range()
	return WeekRange{Start: max(0, r.Start-margin), End: min(c.total, r.End+margin)}
}

func (c *Controller) TotalWeeks() int {
	return c.total
}

func (c *Controller) State() State {
	c.mu.Lock()
	r := c.weekRange
	label := c.label.Format(MonthLabelLayout)
	c.mu.Unlock()
	return State{
		Range:        r,
		TotalWeeks:   c.total,
		MonthLabel:   label,
		HasMoreUp:    r.Start > 0,
		HasMoreDown:  r.End < c.total,
		RenderWindow: WeekRange{Start: max(0, r.Start-RenderMargin), End: min(c.total, r.End+RenderMargin)},
	}
}

// RenderMargin is the number of weeks drawn outside the materialized range.
const RenderMargin = 2
