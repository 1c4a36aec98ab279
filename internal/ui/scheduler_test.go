package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerFiresArmedTimersOnce(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.Schedule(time.Second, func() { calls++ })

	assert.Equal(t, 1, s.Pending())
	assert.NotNil(t, s.Flush())
	assert.Nil(t, s.Flush(), "commands are handed out once")

	s.Fire(timerMsg{id: 1})
	s.Fire(timerMsg{id: 1})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Pending())
}

func TestSchedulerStoppedTimerNeverFires(t *testing.T) {
	s := NewScheduler()
	calls := 0
	timer := s.Schedule(time.Second, func() { calls++ })
	other := s.Schedule(time.Second, func() { calls += 10 })

	timer.Stop()
	s.Fire(timerMsg{id: 1})
	assert.Equal(t, 0, calls)

	other.Stop()
	other.Stop()
	assert.Equal(t, 0, s.Pending())
}

func TestSchedulerStopAll(t *testing.T) {
	s := NewScheduler()
	calls := 0
	s.Schedule(time.Millisecond, func() { calls++ })
	s.Schedule(time.Millisecond, func() { calls++ })

	s.StopAll()
	assert.Nil(t, s.Flush())
	s.Fire(timerMsg{id: 1})
	s.Fire(timerMsg{id: 2})
	assert.Equal(t, 0, calls)
}

func TestSchedulerCallbackMayReschedule(t *testing.T) {
	s := NewScheduler()
	var fire func()
	n := 0
	fire = func() {
		n++
		s.Schedule(time.Millisecond, fire)
	}
	s.Schedule(time.Millisecond, fire)

	s.Fire(timerMsg{id: 1})
	s.Fire(timerMsg{id: 2})
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, s.Pending())
}
