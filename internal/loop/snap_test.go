package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragReleaseSnapsToNearestItem(t *testing.T) {
	h := newHarness(t)

	h.c.WillBeginDragging()
	assert.Equal(t, UserDragging, h.c.Phase())
	h.s.scroll(140)
	assert.False(t, h.c.Next(false), "navigation is dropped during a drag")

	assert.Equal(t, 100.0, h.c.WillEndDragging(140, 0))
	h.c.DidEndDragging(false)

	a := h.s.pending()
	require.NotNil(t, a)
	assert.Equal(t, 100.0, a.to)
	assert.Equal(t, EaseOut, a.curve)
	assert.Equal(t, DefaultSnapDuration, a.d)
	assert.Equal(t, Programmatic, h.c.Phase())

	h.s.finish(t)
	assert.Equal(t, 100.0, h.s.Offset())
	assert.Equal(t, 1, h.c.CurrentIndex())
	assert.Equal(t, Idle, h.c.Phase())
}

func TestFastFlingSnapsInTravelDirection(t *testing.T) {
	h := newHarness(t)
	h.c.WillBeginDragging()
	h.s.scroll(140)

	assert.Equal(t, 200.0, h.c.WillEndDragging(140, 0.8))
	assert.Equal(t, 100.0, h.c.WillEndDragging(150, -0.8))
}

func TestDecelerationKeepsDragOpen(t *testing.T) {
	h := newHarness(t)
	h.c.WillBeginDragging()
	h.s.scroll(140)

	h.c.DidEndDragging(true)
	assert.Equal(t, UserDragging, h.c.Phase())
	assert.Empty(t, h.s.anims)

	h.s.scroll(170)
	h.s.scroll(190)
	h.c.DidEndDecelerating()

	require.NotNil(t, h.s.pending())
	assert.Equal(t, 200.0, h.s.pending().to)
	h.s.finish(t)
	assert.Equal(t, 2, h.c.CurrentIndex())
}

func TestDragWrapsAcrossSeam(t *testing.T) {
	h := newHarness(t)
	h.c.WillBeginDragging()

	h.s.scroll(-20)
	assert.Equal(t, 280.0, h.s.Offset())
	assert.Equal(t, 0, h.c.CurrentIndex())

	h.s.scroll(230)
	h.s.scroll(310)
	assert.Equal(t, 10.0, h.s.Offset())
	assert.Equal(t, 0, h.c.CurrentIndex())
}

func TestSnapIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.rest(100)

	h.c.DidEndProgrammaticAnimation()
	h.c.DidEndProgrammaticAnimation()
	assert.Empty(t, h.s.anims)
	assert.Empty(t, h.s.sets)
	assert.Equal(t, 100.0, h.s.Offset())

	// within epsilon counts as resting
	h.rest(100.4)
	h.c.DidEndProgrammaticAnimation()
	assert.Empty(t, h.s.anims)
	assert.Equal(t, Idle, h.c.Phase())
}

func TestDragOverridesProgrammaticMove(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.c.Next(true))

	h.c.WillBeginDragging()
	assert.Equal(t, UserDragging, h.c.Phase())

	// The superseded animation completes late; its completion is stale.
	h.s.finish(t)
	assert.Equal(t, UserDragging, h.c.Phase())
	assert.Len(t, h.s.anims, 1)

	h.c.DidEndDragging(false)
	assert.Equal(t, Idle, h.c.Phase(), "already resting on a boundary")
	assert.Equal(t, 1, h.c.CurrentIndex())
}

func TestDragPausesAutoplay(t *testing.T) {
	h := newHarness(t)
	h.c.StartAutoplay(3 * time.Second)
	h.sched.Advance(time.Second)

	h.c.WillBeginDragging()
	assert.Equal(t, Paused, h.c.AutoplayState())
	h.s.scroll(130)

	h.sched.Advance(5 * time.Second)
	assert.Empty(t, h.s.anims, "no tick while the user holds the carousel")

	h.c.DidEndDragging(false)
	assert.Equal(t, Running, h.c.AutoplayState())
	require.NotNil(t, h.s.pending())
	assert.Equal(t, 100.0, h.s.pending().to)
	h.s.finish(t)

	h.sched.Advance(2900 * time.Millisecond)
	assert.Len(t, h.s.anims, 1)

	h.sched.Advance(100 * time.Millisecond)
	require.Len(t, h.s.anims, 2)
	assert.Equal(t, 200.0, h.s.pending().to)
}

func TestAutoplayStartedDuringDragWaitsForRelease(t *testing.T) {
	h := newHarness(t)
	h.c.WillBeginDragging()

	h.c.StartAutoplay(time.Second)
	assert.Equal(t, Paused, h.c.AutoplayState())
	assert.Equal(t, 0, h.sched.active())

	h.c.DidEndDecelerating()
	assert.Equal(t, Running, h.c.AutoplayState())
	assert.Equal(t, 1, h.sched.active())
}
