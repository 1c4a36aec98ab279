package loop

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bannerloop/internal/domain"
)

// fakeSurface behaves like a scroll view: SetOffset reports back through
// DidScroll synchronously and animations stay pending until finished.
type fakeSurface struct {
	c      *Controller
	offset float64
	sets   []float64
	anims  []*fakeAnim
}

type fakeAnim struct {
	to     float64
	d      time.Duration
	curve  Curve
	done   func(bool)
	closed bool
}

func (s *fakeSurface) Offset() float64 { return s.offset }

func (s *fakeSurface) SetOffset(x float64) {
	s.offset = x
	s.sets = append(s.sets, x)
	if s.c != nil {
		s.c.DidScroll(x)
	}
}

func (s *fakeSurface) AnimateOffset(x float64, d time.Duration, c Curve, done func(bool)) {
	s.cancel()
	s.anims = append(s.anims, &fakeAnim{to: x, d: d, curve: c, done: done})
}

// pending returns the running animation, if any
func (s *fakeSurface) pending() *fakeAnim {
	if n := len(s.anims); n > 0 && !s.anims[n-1].closed {
		return s.anims[n-1]
	}
	return nil
}

// finish completes the running animation at its target
func (s *fakeSurface) finish(t *testing.T) {
	t.Helper()
	a := s.pending()
	require.NotNil(t, a, "no animation in flight")
	s.finishAt(t, a.to)
}

// finishAt completes the running animation somewhere other than its target
func (s *fakeSurface) finishAt(t *testing.T, x float64) {
	t.Helper()
	a := s.pending()
	require.NotNil(t, a, "no animation in flight")
	a.closed = true
	s.scroll(x)
	a.done(true)
}

// cancel interrupts the running animation the way a touch would
func (s *fakeSurface) cancel() {
	if a := s.pending(); a != nil {
		a.closed = true
		a.done(false)
	}
}

// scroll moves the offset as the user or a frame would
func (s *fakeSurface) scroll(x float64) {
	s.offset = x
	if s.c != nil {
		s.c.DidScroll(x)
	}
}

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() { t.stopped = true }

// fakeScheduler runs timers only when Advance is called. It moves clock
// along with it when set.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
	clock  *fakeClock
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) Timer {
	t := &fakeTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	end := s.now + d
	for {
		due := s.due(end)
		if len(due) == 0 {
			break
		}
		t := due[0]
		s.moveTo(t.at)
		t.fired = true
		t.fn()
	}
	s.moveTo(end)
}

func (s *fakeScheduler) moveTo(at time.Duration) {
	if s.clock != nil {
		s.clock.Add(at - s.now)
	}
	s.now = at
}

func (s *fakeScheduler) due(end time.Duration) []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= end {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out
}

func (s *fakeScheduler) active() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Add(d time.Duration) { c.t = c.t.Add(d) }

type recordingBus struct {
	events []domain.DomainEvent
}

func (b *recordingBus) Publish(e domain.DomainEvent) { b.events = append(b.events, e) }

func (b *recordingBus) ofType(t domain.EventType) []domain.DomainEvent {
	var out []domain.DomainEvent
	for _, e := range b.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

type harness struct {
	c     *Controller
	s     *fakeSurface
	sched *fakeScheduler
	clock *fakeClock
	bus   *recordingBus
}

// newHarness builds a controller over 3 items of width 100 (period 300)
func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		s:     &fakeSurface{},
		clock: &fakeClock{t: time.Date(2025, 10, 30, 12, 0, 0, 0, time.UTC)},
		bus:   &recordingBus{},
	}
	h.sched = &fakeScheduler{clock: h.clock}
	h.c = New(h.s, h.sched, Options{Clock: h.clock, Bus: h.bus})
	h.s.c = h.c
	require.NoError(t, h.c.SetGeometry(Geometry{ItemExtent: 90, Spacing: 10, Count: 3}))
	h.s.sets = nil
	h.bus.events = nil
	return h
}

// rest places the offset without any actor owning it
func (h *harness) rest(x float64) {
	h.s.scroll(x)
	h.s.sets = nil
}
