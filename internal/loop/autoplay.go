package loop

import "time"

// DefaultAutoplayInterval is used when autoplay is started without an interval
const DefaultAutoplayInterval = 3 * time.Second

// Timer is a pending scheduled callback
type Timer interface {
	Stop()
}

// Scheduler runs callbacks later on the same goroutine that owns the
// controller. Implementations must never run fn after its Timer was stopped.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Timer
}

// AutoplayState is the state of the autoplay timer
type AutoplayState int

const (
	Stopped AutoplayState = iota
	Running
	Paused
)

func (s AutoplayState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Autoplay fires tick every interval while running. Pausing keeps the
// intent to run; resuming always waits a full fresh interval.
type Autoplay struct {
	sched           Scheduler
	defaultInterval time.Duration
	tick            func()
	onChange        func(AutoplayState, time.Duration)

	state    AutoplayState
	interval time.Duration
	timer    Timer
	gen      uint64
}

// NewAutoplay creates a stopped autoplay timer. onChange may be nil.
func NewAutoplay(sched Scheduler, defaultInterval time.Duration, tick func(), onChange func(AutoplayState, time.Duration)) *Autoplay {
	if defaultInterval <= 0 {
		defaultInterval = DefaultAutoplayInterval
	}
	return &Autoplay{
		sched:           sched,
		defaultInterval: defaultInterval,
		tick:            tick,
		onChange:        onChange,
		interval:        defaultInterval,
	}
}

// State returns the current timer state
func (a *Autoplay) State() AutoplayState { return a.state }

// Interval returns the configured tick interval
func (a *Autoplay) Interval() time.Duration { return a.interval }

// Start (re)arms the timer with interval; zero or negative means the default.
func (a *Autoplay) Start(interval time.Duration) {
	if interval <= 0 {
		interval = a.defaultInterval
	}
	a.cancel()
	changed := a.state != Running || a.interval != interval
	a.interval = interval
	a.arm()
	a.state = Running
	if changed && a.onChange != nil {
		a.onChange(Running, interval)
	}
}

// Pause cancels the pending tick but remembers that autoplay should run.
func (a *Autoplay) Pause() {
	if a.state != Running {
		return
	}
	a.cancel()
	a.set(Paused)
}

// Resume restarts a paused timer with a full interval.
func (a *Autoplay) Resume() {
	if a.state != Paused {
		return
	}
	a.arm()
	a.set(Running)
}

// Stop cancels the timer and forgets the intent to run.
func (a *Autoplay) Stop() {
	a.cancel()
	a.set(Stopped)
}

func (a *Autoplay) arm() {
	if a.sched == nil {
		return
	}
	a.gen++
	gen := a.gen
	a.timer = a.sched.Schedule(a.interval, func() { a.fire(gen) })
}

func (a *Autoplay) fire(gen uint64) {
	if gen != a.gen || a.state != Running {
		return
	}
	a.arm()
	if a.tick != nil {
		a.tick()
	}
}

func (a *Autoplay) cancel() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Autoplay) set(s AutoplayState) {
	if a.state == s {
		return
	}
	a.state = s
	if a.onChange != nil {
		a.onChange(s, a.interval)
	}
}
