package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler(t *testing.T) {
	t.Run("should fire only after the deadline passes", func(t *testing.T) {
		// given
		s := NewManualScheduler()
		fired := 0
		s.AfterFunc(200*time.Millisecond, func() { fired++ })

		// when
		s.Advance(199 * time.Millisecond)

		// then
		assert.Equal(t, 0, fired)
		s.Advance(time.Millisecond)
		assert.Equal(t, 1, fired)
		assert.Equal(t, 0, s.Pending())
	})

	t.Run("should not fire a stopped timer", func(t *testing.T) {
		// given
		s := NewManualScheduler()
		fired := false
		timer := s.AfterFunc(time.Second, func() { fired = true })

		// when
		stopped := timer.Stop()
		s.Advance(2 * time.Second)

		// then
		assert.True(t, stopped)
		assert.False(t, fired)
		assert.False(t, timer.Stop())
	})

	t.Run("should fire due timers in deadline order", func(t *testing.T) {
		// given
		s := NewManualScheduler()
		var order []string
		s.AfterFunc(30*time.Millisecond, func() { order = append(order, "late") })
		s.AfterFunc(10*time.Millisecond, func() { order = append(order, "early") })

		// when
		s.Advance(time.Second)

		// then
		assert.Equal(t, []string{"early", "late"}, order)
	})
}

func TestMockClock_Advance(t *testing.T) {
	clock := NewMockClock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	clock.Advance(90 * time.Minute)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), clock.Now())
}
