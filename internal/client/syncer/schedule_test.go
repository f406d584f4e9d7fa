package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_OrdersByEligibleTime(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	s := newSchedule()

	s.set("3", t0.Add(3*time.Minute))
	s.set("1", t0.Add(time.Minute))
	s.set("2", t0.Add(2*time.Minute))

	next, ok := s.next()
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Minute), next)

	s.set("1", t0.Add(10*time.Minute))
	next, _ = s.next()
	assert.Equal(t, t0.Add(2*time.Minute), next)

	s.set("3", t0)
	next, _ = s.next()
	assert.Equal(t, t0, next)
	assert.Len(t, s.h, 3)
	assert.Len(t, s.byID, 3)
}

func TestSchedule_TiesBreakOnTaskID(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	s := newSchedule()
	s.set("b", t0)
	s.set("a", t0)
	s.set("c", t0)

	assert.Equal(t, "a", s.h[0].taskID)

	s.reset()
	_, ok := s.next()
	assert.False(t, ok)
	assert.Empty(t, s.byID)
}
