package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bannerloop/internal/loop"
)

// timerMsg is delivered when a scheduled callback is due
type timerMsg struct {
	id uint64
}

// Scheduler turns controller timers into tea.Tick commands so every callback
// runs inside Update, on the same goroutine as the rest of the model.
type Scheduler struct {
	nextID  uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[uint64]func())}
}

type schedTimer struct {
	s  *Scheduler
	id uint64
}

func (t schedTimer) Stop() {
	delete(t.s.pending, t.id)
}

// Schedule queues fn to run after d. The tick command is picked up by the
// next call to Flush.
func (s *Scheduler) Schedule(d time.Duration, fn func()) loop.Timer {
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return schedTimer{s: s, id: id}
}

// Fire runs the callback behind msg if its timer is still armed
func (s *Scheduler) Fire(msg timerMsg) {
	fn, ok := s.pending[msg.id]
	if !ok {
		return
	}
	delete(s.pending, msg.id)
	fn()
}

// Flush returns the tick commands queued since the last call
func (s *Scheduler) Flush() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

// Pending reports how many timers are armed
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// StopAll disarms every timer
func (s *Scheduler) StopAll() {
	s.pending = make(map[uint64]func())
	s.cmds = nil
}
