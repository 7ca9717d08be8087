package viewport

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

func defaultController() *Controller {
	return NewController(Options{TotalWeeks: 156, InitialWeeks: 12, Buffer: 6, InitialStart: 36, TopInset: 63}, today)
}

func TestNewController(t *testing.T) {
	t.Run("should open on initial week", func(t *testing.T) {
		c := defaultController()

		assert.Equal(t, WeekRange{Start: 36, End: 48}, c.Range())
		assert.Equal(t, "March 2024", c.MonthLabel())
		assert.True(t, c.HasMoreUp())
		assert.True(t, c.HasMoreDown())
	})

	t.Run("should fit window into short grid", func(t *testing.T) {
		c := NewController(Options{TotalWeeks: 5, InitialWeeks: 12, Buffer: 6, InitialStart: 3}, today)

		assert.Equal(t, WeekRange{Start: 3, End: 5}, c.Range())
		assert.False(t, c.HasMoreDown())
	})

	t.Run("should never start with empty range", func(t *testing.T) {
		c := NewController(Options{TotalWeeks: 0, InitialWeeks: 0, InitialStart: 10}, today)

		assert.Equal(t, WeekRange{Start: 0, End: 1}, c.Range())
	})
}

func TestController_EnsureVisible(t *testing.T) {
	testCases := []struct {
		name      string
		weekIndex int
		expected  WeekRange
	}{
		{name: "already visible", weekIndex: 40, expected: WeekRange{Start: 36, End: 48}},
		{name: "last visible week", weekIndex: 47, expected: WeekRange{Start: 36, End: 48}},
		{name: "recentre below", weekIndex: 100, expected: WeekRange{Start: 94, End: 106}},
		{name: "recentre above", weekIndex: 10, expected: WeekRange{Start: 4, End: 16}},
		{name: "clamp negative", weekIndex: -5, expected: WeekRange{Start: 0, End: 12}},
		{name: "clamp past end", weekIndex: 500, expected: WeekRange{Start: 144, End: 156}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := defaultController()

			assert.Equal(t, tc.expected, c.EnsureVisible(tc.weekIndex))
		})
	}
}

func TestController_Expand(t *testing.T) {
	t.Run("should grow in both directions", func(t *testing.T) {
		c := defaultController()

		assert.Equal(t, WeekRange{Start: 30, End: 48}, c.Expand(Up))
		assert.Equal(t, WeekRange{Start: 30, End: 54}, c.Expand(Down))
	})

	t.Run("should stop at the grid edges", func(t *testing.T) {
		c := defaultController()
		c.EnsureVisible(0)
		assert.Equal(t, WeekRange{Start: 0, End: 12}, c.Expand(Up))

		c.EnsureVisible(155)
		assert.Equal(t, WeekRange{Start: 144, End: 156}, c.Expand(Down))
		assert.False(t, c.HasMoreDown())
	})

	t.Run("should clamp partial buffer", func(t *testing.T) {
		c := NewController(Options{TotalWeeks: 20, InitialWeeks: 4, Buffer: 6, InitialStart: 2}, today)

		assert.Equal(t, WeekRange{Start: 0, End: 6}, c.Expand(Up))
		assert.Equal(t, WeekRange{Start: 0, End: 12}, c.Expand(Down))
		assert.Equal(t, WeekRange{Start: 0, End: 18}, c.Expand(Down))
		assert.Equal(t, WeekRange{Start: 0, End: 20}, c.Expand(Down))
	})
}

func TestController_RangeInvariant(t *testing.T) {
	for _, total := range []int{1, 5, 12, 156} {
		c := NewController(Options{TotalWeeks: total, InitialWeeks: 12, Buffer: 6, InitialStart: total / 2}, today)
		random := rand.New(rand.NewSource(int64(total)))

		for i := 0; i < 500; i++ {
			var r WeekRange
			switch random.Intn(3) {
			case 0:
				r = c.EnsureVisible(random.Intn(total*3) - total)
			case 1:
				r = c.Expand(Up)
			default:
				r = c.Expand(Down)
			}
			assert.GreaterOrEqual(t, r.Start, 0)
			assert.Less(t, r.Start, r.End)
			assert.LessOrEqual(t, r.End, total)
		}
	}
}

func TestController_RenderWindow(t *testing.T) {
	c := defaultController()

	assert.Equal(t, WeekRange{Start: 34, End: 50}, c.RenderWindow(RenderMargin))
	c.EnsureVisible(0)
	assert.Equal(t, WeekRange{Start: 0, End: 14}, c.State().RenderWindow)
}

func month(m time.Month) time.Time {
	return time.Date(2024, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestController_ObserveRow(t *testing.T) {
	t.Run("should prefer topmost row below the edge", func(t *testing.T) {
		c := defaultController()

		c.ObserveRow(RowObservation{WeekIndex: 0, Date: month(time.February), IsIntersecting: true, RelativeTop: 63 - 50})
		label := c.ObserveRow(RowObservation{WeekIndex: 1, Date: month(time.March), IsIntersecting: true, RelativeTop: 63 + 100})

		assert.Equal(t, "March 2024", label)
	})

	t.Run("should prefer lowest row above the edge", func(t *testing.T) {
		c := defaultController()

		c.ObserveRow(RowObservation{WeekIndex: 0, Date: month(time.January), IsIntersecting: true, RelativeTop: -200})
		label := c.ObserveRow(RowObservation{WeekIndex: 1, Date: month(time.February), IsIntersecting: true, RelativeTop: -50})

		assert.Equal(t, "February 2024", label)
	})

	t.Run("should keep first observed row on equal offsets", func(t *testing.T) {
		c := defaultController()

		c.ObserveRow(RowObservation{WeekIndex: 3, Date: month(time.April), IsIntersecting: true, RelativeTop: 100})
		label := c.ObserveRow(RowObservation{WeekIndex: 4, Date: month(time.May), IsIntersecting: true, RelativeTop: 100})

		assert.Equal(t, "April 2024", label)
	})

	t.Run("should fall back to last removed row", func(t *testing.T) {
		c := defaultController()
		c.ObserveRow(RowObservation{WeekIndex: 0, Date: month(time.February), IsIntersecting: true, RelativeTop: 0})
		c.ObserveRow(RowObservation{WeekIndex: 1, Date: month(time.March), IsIntersecting: true, RelativeTop: 300})

		assert.Equal(t, "February 2024", c.ObserveRow(RowObservation{WeekIndex: 1, Date: month(time.March), IsIntersecting: false}))
		assert.Equal(t, "July 2024", c.ObserveRow(RowObservation{WeekIndex: 0, Date: month(time.July), IsIntersecting: false}))
		assert.Equal(t, "July 2024", c.MonthLabel())
	})

	t.Run("should tolerate removal of unknown rows", func(t *testing.T) {
		c := defaultController()

		label := c.ObserveRow(RowObservation{WeekIndex: 7, Date: month(time.June), IsIntersecting: false})

		assert.Equal(t, "June 2024", label)
	})
}
