package loop

import "math"

// WillBeginDragging hands the offset to the user and pauses autoplay.
// A drag always wins over an in-flight programmatic move.
func (c *Controller) WillBeginDragging() {
	if !c.usable() {
		return
	}
	c.state.beginDrag()
	c.autoplay.Pause()
}

// WillEndDragging replaces the surface's natural deceleration target with an
// item boundary, biased in the direction of a fast fling.
func (c *Controller) WillEndDragging(target, velocity float64) float64 {
	if !c.usable() {
		return target
	}
	snap := SnapTarget(target, velocity, c.opts.VelocityThreshold, c.state.geometry)
	c.logger.Debug("drag released", "target", target, "velocity", velocity, "snap", snap)
	return snap
}

// DidEndDragging is called when the finger lifts. If the surface keeps
// decelerating the drag stays open until DidEndDecelerating.
func (c *Controller) DidEndDragging(willDecelerate bool) {
	if !c.usable() || willDecelerate {
		return
	}
	c.finishDrag()
}

// DidEndDecelerating closes a drag once the surface has come to rest.
func (c *Controller) DidEndDecelerating() {
	if !c.usable() {
		return
	}
	c.finishDrag()
}

// DidEndProgrammaticAnimation runs the resting-position check after a
// surface-driven animation completes.
func (c *Controller) DidEndProgrammaticAnimation() {
	if !c.usable() {
		return
	}
	c.snapToNearest()
}

func (c *Controller) finishDrag() {
	c.state.endDrag()
	c.snapToNearest()
	c.autoplay.Resume()
}

// snapToNearest makes sure the offset rests exactly on an item boundary.
func (c *Controller) snapToNearest() {
	if !c.usable() || c.state.phase == UserDragging {
		return
	}
	offset := c.surface.Offset()
	target := AlignedOffset(offset, c.state.geometry)

	if math.Abs(offset-target) > c.opts.SnapEpsilon {
		token := c.state.beginProgrammatic()
		c.surface.AnimateOffset(target, c.opts.SnapDuration, EaseOut, func(finished bool) {
			if c.closed || !finished {
				return
			}
			if c.state.endProgrammatic(token) {
				c.settle()
			}
		})
		return
	}

	if c.state.phase == Programmatic {
		c.state.endProgrammatic(c.state.owner)
	}
	c.settle()
}
