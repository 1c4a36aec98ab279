package ui

import (
	"math"
	"time"

	"bannerloop/internal/loop"
)

const (
	frameInterval      = 16 * time.Millisecond
	velocityWindow     = 100 * time.Millisecond
	velocityUnit       = 10 * time.Millisecond // velocity is columns per 10ms
	decelerationLength = 250 * time.Millisecond
)

// ScrollDelegate receives the surface's scroll and drag notifications.
// *loop.Controller implements it.
type ScrollDelegate interface {
	DidScroll(offset float64)
	WillBeginDragging()
	WillEndDragging(target, velocity float64) float64
	DidEndDragging(willDecelerate bool)
	DidEndDecelerating()
}

type animation struct {
	from, to float64
	duration time.Duration
	elapsed  time.Duration
	curve    loop.Curve
	timer    loop.Timer
	done     func(finished bool)
}

type dragSample struct {
	x  int
	at time.Time
}

// Surface is a horizontal scroll position measured in terminal columns. It
// animates in fixed frames driven by the scheduler and turns mouse drags
// into delegate callbacks.
type Surface struct {
	sched    loop.Scheduler
	delegate ScrollDelegate
	now      func() time.Time

	offset float64
	anim   *animation

	dragging bool
	samples  []dragSample
}

// NewSurface creates a surface at offset 0
func NewSurface(sched loop.Scheduler) *Surface {
	return &Surface{sched: sched, now: time.Now}
}

// SetDelegate wires the surface to the controller
func (s *Surface) SetDelegate(d ScrollDelegate) {
	s.delegate = d
}

func (s *Surface) Offset() float64 { return s.offset }

// SetOffset jumps to x. A running animation moves by the same amount so a
// wrap correction mid-flight keeps the motion continuous.
func (s *Surface) SetOffset(x float64) {
	if s.anim != nil {
		delta := x - s.offset
		s.anim.from += delta
		s.anim.to += delta
	}
	s.moveTo(x)
}

// AnimateOffset moves to x over d, cancelling any running animation.
func (s *Surface) AnimateOffset(x float64, d time.Duration, c loop.Curve, done func(finished bool)) {
	s.cancelAnimation()
	if d <= 0 {
		s.moveTo(x)
		if done != nil {
			done(true)
		}
		return
	}
	s.anim = &animation{from: s.offset, to: x, duration: d, curve: c, done: done}
	s.scheduleFrame(s.anim)
}

// Animating reports whether an animation is in flight
func (s *Surface) Animating() bool { return s.anim != nil }

// Dragging reports whether the mouse currently holds the surface
func (s *Surface) Dragging() bool { return s.dragging }

// Stop cancels any running animation and drag without notifying the delegate
// of a drag end. Used before geometry changes.
func (s *Surface) Stop() {
	s.cancelAnimation()
	s.dragging = false
	s.samples = nil
}

// BeginDrag starts a mouse drag at column x
func (s *Surface) BeginDrag(x int) {
	s.cancelAnimation()
	s.dragging = true
	s.samples = []dragSample{{x: x, at: s.now()}}
	if s.delegate != nil {
		s.delegate.WillBeginDragging()
	}
}

// DragTo follows the pointer. Moving the pointer left scrolls forward.
func (s *Surface) DragTo(x int) {
	if !s.dragging {
		return
	}
	last := s.samples[len(s.samples)-1]
	s.record(x)
	if delta := last.x - x; delta != 0 {
		s.moveTo(s.offset + float64(delta))
	}
}

// EndDrag releases the pointer and lets the delegate pick a resting offset
func (s *Surface) EndDrag(x int) {
	if !s.dragging {
		return
	}
	s.record(x)
	s.dragging = false
	v := s.velocity()
	s.samples = nil

	if s.delegate == nil {
		return
	}
	natural := s.offset + v*float64(velocityWindow/velocityUnit)
	target := s.delegate.WillEndDragging(natural, v)
	if math.Abs(target-s.offset) < 0.5 {
		s.delegate.DidEndDragging(false)
		return
	}
	s.delegate.DidEndDragging(true)
	s.AnimateOffset(target, decelerationLength, loop.EaseOut, func(finished bool) {
		if finished && s.delegate != nil {
			s.delegate.DidEndDecelerating()
		}
	})
}

func (s *Surface) record(x int) {
	now := s.now()
	s.samples = append(s.samples, dragSample{x: x, at: now})
	cutoff := now.Add(-velocityWindow)
	i := 0
	for i < len(s.samples)-1 && s.samples[i].at.Before(cutoff) {
		i++
	}
	s.samples = s.samples[i:]
}

// velocity is in offset columns per velocityUnit over the recent samples
func (s *Surface) velocity() float64 {
	if len(s.samples) < 2 {
		return 0
	}
	first, last := s.samples[0], s.samples[len(s.samples)-1]
	dt := last.at.Sub(first.at)
	if dt <= 0 {
		return 0
	}
	return float64(first.x-last.x) / (float64(dt) / float64(velocityUnit))
}

func (s *Surface) moveTo(x float64) {
	s.offset = x
	if s.delegate != nil {
		s.delegate.DidScroll(x)
	}
}

func (s *Surface) scheduleFrame(a *animation) {
	a.timer = s.sched.Schedule(frameInterval, func() { s.frame(a) })
}

func (s *Surface) frame(a *animation) {
	if s.anim != a {
		return
	}
	a.elapsed += frameInterval
	t := float64(a.elapsed) / float64(a.duration)
	if t >= 1 {
		s.anim = nil
		s.moveTo(a.to)
		if a.done != nil {
			a.done(true)
		}
		return
	}
	s.moveTo(a.from + (a.to-a.from)*a.curve.Apply(t))
	// the delegate may have started a new animation from DidScroll
	if s.anim == a {
		s.scheduleFrame(a)
	}
}

func (s *Surface) cancelAnimation() {
	a := s.anim
	if a == nil {
		return
	}
	s.anim = nil
	if a.timer != nil {
		a.timer.Stop()
	}
	if a.done != nil {
		a.done(false)
	}
}
