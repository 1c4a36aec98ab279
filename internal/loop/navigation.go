package loop

import (
	"math"
	"time"

	"bannerloop/internal/domain"
)

// Direction of a single-item step
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "previous"
	}
	return "next"
}

func (d Direction) sign() float64 {
	if d == Backward {
		return -1
	}
	return 1
}

// debouncer remembers the last accepted step per direction
type debouncer struct {
	interval time.Duration
	last     map[Direction]time.Time
}

func newDebouncer(interval time.Duration) debouncer {
	return debouncer{interval: interval, last: make(map[Direction]time.Time)}
}

func (d *debouncer) allow(dir Direction, now time.Time) bool {
	last, ok := d.last[dir]
	return !ok || now.Sub(last) >= d.interval
}

func (d *debouncer) mark(dir Direction, now time.Time) {
	d.last[dir] = now
}

func (d *debouncer) reset() {
	d.last = make(map[Direction]time.Time)
}

// Next slides one item forward. It returns false when the call was dropped.
func (c *Controller) Next(animated bool) bool {
	return c.step(Forward, animated)
}

// Previous slides one item backward. It returns false when the call was dropped.
func (c *Controller) Previous(animated bool) bool {
	return c.step(Backward, animated)
}

// GotoIndex moves to item i (taken modulo the item count). It is not
// debounced but is dropped while another actor owns the offset.
func (c *Controller) GotoIndex(i int, animated bool) bool {
	if reason := c.blocked(); reason != "" {
		return c.drop("goto", reason)
	}
	g := c.state.geometry
	target := IndexOffset(i, g)
	if math.Abs(c.surface.Offset()-target) <= c.opts.SnapEpsilon {
		c.settle()
		return true
	}

	token := c.state.beginProgrammatic()
	c.moveTo(token, target, animated)
	return true
}

func (c *Controller) step(dir Direction, animated bool) bool {
	action := dir.String()
	if reason := c.blocked(); reason != "" {
		return c.drop(action, reason)
	}
	now := c.opts.Clock.Now()
	if !c.debounce.allow(dir, now) {
		return c.drop(action, "debounced")
	}
	c.debounce.mark(dir, now)

	g := c.state.geometry
	current := c.surface.Offset()
	aligned := AlignedOffset(current, g)
	target := aligned + dir.sign()*g.ItemWidth()

	token := c.state.beginProgrammatic()

	// Crossing the loop seam: jump to the equivalent position one period away
	// so the visible motion stays a single-item slide.
	if shift := WrapOnce(target, g) - target; shift != 0 {
		aligned += shift
		target += shift
		c.surface.SetOffset(aligned)
	} else if math.Abs(current-aligned) > c.opts.SnapEpsilon {
		c.surface.SetOffset(aligned)
	}

	c.moveTo(token, target, animated)
	return true
}

func (c *Controller) moveTo(token moveToken, target float64, animated bool) {
	if !animated {
		c.surface.SetOffset(target)
		if c.state.endProgrammatic(token) {
			c.settle()
		}
		return
	}
	c.surface.AnimateOffset(target, c.opts.NavigationDuration, EaseInOut, func(finished bool) {
		if c.closed || !finished {
			return
		}
		if c.state.phase == Programmatic && c.state.owner == token {
			c.snapToNearest()
		}
	})
}

func (c *Controller) blocked() string {
	switch {
	case c.closed:
		return "closed"
	case !c.state.valid:
		return "not_ready"
	case c.state.busy():
		return "busy"
	}
	return ""
}

func (c *Controller) drop(action, reason string) bool {
	if c.closed {
		return false
	}
	c.logger.Debug("navigation dropped", "action", action, "reason", reason)
	c.opts.Bus.Publish(domain.NavigationDroppedEvent{Action: action, Reason: reason})
	return false
}
