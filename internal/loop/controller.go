// Package loop implements the scroll controller behind an endlessly looping
// carousel. It owns the offset state machine and drives an injected Surface.
// All methods must be called from the goroutine that owns the surface.
package loop

import (
	"errors"
	"log/slog"
	"time"

	"bannerloop/internal/domain"
	"bannerloop/internal/eventbus"
	"bannerloop/internal/log"
)

// Defaults for Options fields left at their zero value
const (
	DefaultDebounceInterval   = 300 * time.Millisecond
	DefaultSnapEpsilon        = 0.5
	DefaultVelocityThreshold  = 0.5
	DefaultNavigationDuration = 300 * time.Millisecond
	DefaultSnapDuration       = 150 * time.Millisecond
)

// Surface is the scrollable view the controller drives.
//
// SetOffset may call back into Controller.DidScroll before it returns.
// AnimateOffset must eventually call done exactly once: finished is false
// when the animation was cut short by a drag or another animation.
type Surface interface {
	Offset() float64
	SetOffset(x float64)
	AnimateOffset(x float64, d time.Duration, c Curve, done func(finished bool))
}

// Clock supplies the time used for navigation debouncing
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options tunes the controller. Zero values pick the package defaults.
type Options struct {
	AutoplayInterval   time.Duration
	DebounceInterval   time.Duration
	SnapEpsilon        float64
	VelocityThreshold  float64
	NavigationDuration time.Duration
	SnapDuration       time.Duration

	Clock  Clock
	Bus    eventbus.Publisher
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.AutoplayInterval <= 0 {
		o.AutoplayInterval = DefaultAutoplayInterval
	}
	if o.DebounceInterval <= 0 {
		o.DebounceInterval = DefaultDebounceInterval
	}
	if o.SnapEpsilon <= 0 {
		o.SnapEpsilon = DefaultSnapEpsilon
	}
	if o.VelocityThreshold <= 0 {
		o.VelocityThreshold = DefaultVelocityThreshold
	}
	if o.NavigationDuration <= 0 {
		o.NavigationDuration = DefaultNavigationDuration
	}
	if o.SnapDuration <= 0 {
		o.SnapDuration = DefaultSnapDuration
	}
	if o.Clock == nil {
		o.Clock = systemClock{}
	}
	if o.Bus == nil {
		o.Bus = eventbus.Discard{}
	}
	if o.Logger == nil {
		o.Logger = log.Logger()
	}
	return o
}

// IndexChange is delivered to subscribers when the current index changes
type IndexChange struct {
	Old   int
	New   int
	Count int
}

// Controller coordinates the autoplay timer, user drags and navigation calls
// so that only one of them moves the offset at a time.
type Controller struct {
	surface Surface
	opts    Options
	logger  *slog.Logger

	state    scrollState
	debounce debouncer
	autoplay *Autoplay

	subs    map[int]func(IndexChange)
	nextSub int

	invalidReported bool
	closed          bool
}

// New creates a controller for surface. It stays idle until SetGeometry
// receives a valid geometry.
func New(surface Surface, sched Scheduler, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		surface:  surface,
		opts:     opts,
		logger:   opts.Logger,
		debounce: newDebouncer(opts.DebounceInterval),
		subs:     make(map[int]func(IndexChange)),
	}
	c.autoplay = NewAutoplay(sched, opts.AutoplayInterval, func() { c.Next(true) }, c.autoplayChanged)
	return c
}

// SetGeometry replaces the item geometry and re-seats the offset on the
// current item (or the first one if it no longer exists). Hosts should stop
// surface animations before calling it.
//
// A drag in progress is abandoned and paused autoplay resumes with a fresh
// interval.
//
// An empty item set is a quiet idle state and returns nil. Any other invalid
// geometry returns an error wrapping ErrInvalidGeometry; it is logged and
// published once until valid geometry is set again.
func (c *Controller) SetGeometry(g Geometry) error {
	if c.closed {
		return nil
	}
	// a relayout ends any drag, and autoplay has to come back with it
	wasDragging := c.state.phase == UserDragging
	defer func() {
		if wasDragging {
			c.autoplay.Resume()
		}
	}()

	if err := g.Validate(); err != nil {
		c.state.geometry = g
		c.state.valid = false
		c.state.reset()
		if errors.Is(err, ErrEmpty) {
			c.logger.Debug("carousel has no items")
			return nil
		}
		if !c.invalidReported {
			c.invalidReported = true
			c.logger.Warn("carousel geometry invalid", "error", err)
			c.opts.Bus.Publish(domain.GeometryInvalidEvent{Reason: err.Error()})
		}
		return err
	}

	c.invalidReported = false
	idx := c.state.index
	if idx >= g.Count {
		idx = 0
	}
	c.state.geometry = g
	c.state.valid = true
	c.state.reset()

	token := c.state.beginProgrammatic()
	c.surface.SetOffset(IndexOffset(idx, g))
	c.state.endProgrammatic(token)
	c.settle()

	c.logger.Debug("carousel geometry set",
		"extent", g.ItemExtent, "spacing", g.Spacing, "count", g.Count, "index", c.state.index)
	return nil
}

// Geometry returns the last geometry passed to SetGeometry
func (c *Controller) Geometry() Geometry { return c.state.geometry }

// Ready reports whether the geometry is valid and the controller is open
func (c *Controller) Ready() bool { return c.usable() }

// CurrentIndex is the item nearest to the offset, always in [0, Count)
func (c *Controller) CurrentIndex() int { return c.state.index }

// Offset is the last offset the controller observed
func (c *Controller) Offset() float64 { return c.state.offset }

// Phase returns which actor owns the offset
func (c *Controller) Phase() Phase { return c.state.phase }

// AutoplayState returns the state of the autoplay timer
func (c *Controller) AutoplayState() AutoplayState { return c.autoplay.State() }

// Subscribe registers fn for index changes and returns a function that
// removes it. fn runs synchronously on the owner goroutine.
func (c *Controller) Subscribe(fn func(IndexChange)) func() {
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

// DidScroll is called by the surface whenever its offset changes.
func (c *Controller) DidScroll(offset float64) {
	if !c.usable() {
		return
	}
	// A programmatic move has already placed the offset where it wants it
	if c.state.phase != Programmatic {
		if wrapped := WrapOnce(offset, c.state.geometry); wrapped != offset {
			c.state.offset = wrapped
			c.surface.SetOffset(wrapped)
			offset = c.surface.Offset()
		}
	}
	c.state.offset = offset
	c.updateIndex()
}

// StartAutoplay begins advancing every interval; zero means the configured
// default. Starting during a drag leaves the timer paused until the drag ends.
func (c *Controller) StartAutoplay(interval time.Duration) {
	if c.closed {
		return
	}
	c.autoplay.Start(interval)
	if c.state.phase == UserDragging {
		c.autoplay.Pause()
	}
}

// StopAutoplay stops advancing and forgets the intent to resume
func (c *Controller) StopAutoplay() {
	c.autoplay.Stop()
}

// Close cancels the autoplay timer and drops debounce history. No callback
// fires and no event is published after Close returns.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.autoplay.Stop()
	c.closed = true
	c.debounce.reset()
	c.state.reset()
	c.subs = make(map[int]func(IndexChange))
}

func (c *Controller) usable() bool {
	return !c.closed && c.state.valid
}

// settle re-reads the surface once nobody owns the offset, applying any
// pending wrap correction and refreshing the index.
func (c *Controller) settle() {
	if !c.usable() || c.state.busy() {
		return
	}
	c.DidScroll(c.surface.Offset())
}

func (c *Controller) updateIndex() {
	idx := NearestIndex(c.state.offset, c.state.geometry)
	if idx == c.state.index {
		return
	}
	change := IndexChange{Old: c.state.index, New: idx, Count: c.state.geometry.Count}
	c.state.index = idx
	for _, fn := range c.subs {
		fn(change)
	}
	c.opts.Bus.Publish(domain.IndexChangedEvent{Old: change.Old, New: change.New, Count: change.Count})
}

func (c *Controller) autoplayChanged(s AutoplayState, interval time.Duration) {
	if c.closed {
		return
	}
	c.logger.Debug("autoplay state changed", "state", s, "interval", interval)
	c.opts.Bus.Publish(domain.AutoplayChangedEvent{State: s.String(), Interval: interval})
}
