package cell

import (
	"fmt"
	"math"
	"sync"
)

// Metrics are the fixed row sizes of a day cell in pixels.
type Metrics struct {
	RowHeight  float64
	Gap        float64
	MoreHeight float64
}

var DefaultMetrics = Metrics{RowHeight: 20, Gap: 2, MoreHeight: 20}

type Plan struct {
	Visible   int
	Remaining int
}

func (p Plan) ShowMore() bool {
	return p.Remaining > 0
}

// PlanOverflow decides how many of count rows fit into available pixels and
// whether a "more" row is needed. A non-positive height means the cell has
// not been measured yet and everything is shown.
func PlanOverflow(count int, available float64, m Metrics) Plan {
	if count <= 0 {
		return Plan{}
	}
	if available <= 0 {
		return Plan{Visible: count}
	}
	moreHeight := m.MoreHeight
	if moreHeight <= 0 {
		moreHeight = m.RowHeight
	}

	all := float64(count)*m.RowHeight + float64(count-1)*m.Gap
	if all <= available {
		return Plan{Visible: count}
	}
	visible := int(math.Floor((available - moreHeight) / (m.RowHeight + m.Gap)))
	visible = min(max(visible, 0), count)
	return Plan{Visible: visible, Remaining: count - visible}
}

func MoreLabel(remaining int) string {
	if remaining == 1 {
		return "1 more event"
	}
	return fmt.Sprintf("%d more events", remaining)
}

// Planner caches the last plan and recomputes only when the row count or the
// available height changes.
type Planner struct {
	mu        sync.Mutex
	metrics   Metrics
	count     int
	available float64
	plan      Plan
	valid     bool
	computed  int
}

func NewPlanner(metrics Metrics) *Planner {
	return &Planner{metrics: metrics}
}

func (p *Planner) Plan(count int, available float64) Plan {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.valid && p.count == count && p.available == available {
		return p.plan
	}
	p.count, p.available = count, available
	p.plan = PlanOverflow(count, available, p.metrics)
	p.valid = true
	p.computed++
	return p.plan
}

// Computations reports how many times the plan was recomputed.
func (p *Planner) Computations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.computed
}
