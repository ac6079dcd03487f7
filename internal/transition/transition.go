// Package transition wraps theme update actions in optional timed
// transitions.
//
// A Runner always applies the action's state change synchronously. When the
// update is animated, the runner additionally records a transition window that
// the host renderer uses to blend from the old appearance to the new one.
// Nothing waits for a transition to finish.
package transition

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDuration is the transition length used when none is configured.
const DefaultDuration = 250 * time.Millisecond

// FrameInterval is the redraw interval while a transition is active.
const FrameInterval = time.Second / 30

// Settings configures transitions for future deliveries.
type Settings struct {
	Enabled  bool
	Duration time.Duration
}

// Animates reports whether a delivery under these settings is animated,
// given the subscriber's own preference.
func (s Settings) Animates(preference bool) bool {
	return s.Enabled && preference && s.Duration > 0
}

// Runner runs an update action, optionally as an animated transition.
// If animated is false or d is zero the action runs immediately.
type Runner interface {
	Run(animated bool, d time.Duration, action func())
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(animated bool, d time.Duration, action func())

// Run calls f.
func (f RunnerFunc) Run(animated bool, d time.Duration, action func()) {
	f(animated, d, action)
}

type immediate struct{}

func (immediate) Run(_ bool, _ time.Duration, action func()) {
	action()
}

// Immediate runs every action synchronously and never animates.
var Immediate Runner = immediate{}

// Transition is a single animation window.
type Transition struct {
	Start    time.Time
	Duration time.Duration
}

// Progress returns how far the transition is at now, in [0,1].
func (t Transition) Progress(now time.Time) float64 {
	if t.Duration <= 0 {
		return 1
	}
	elapsed := now.Sub(t.Start)
	switch {
	case elapsed <= 0:
		return 0
	case elapsed >= t.Duration:
		return 1
	}
	return float64(elapsed) / float64(t.Duration)
}

// Done reports whether the transition has finished at now.
func (t Transition) Done(now time.Time) bool {
	return t.Progress(now) >= 1
}

// FrameMsg is delivered to the bubbletea program on every transition frame.
type FrameMsg struct {
	Time time.Time
}

// Tracker is a Runner that records animated transitions for a renderer.
// It is confined to the UI goroutine like the registry it serves.
type Tracker struct {
	now      func() time.Time
	current  Transition
	started  bool
	last     bool // whether the most recent Run was animated
	animated int
}

// NewTracker creates a tracker. A nil clock uses time.Now.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now}
}

// Run applies action synchronously and, when animated, opens a transition
// window of length d starting now. Deliveries that arrive while a window is
// open restart it.
func (t *Tracker) Run(animated bool, d time.Duration, action func()) {
	t.last = animated && d > 0
	if t.last {
		t.current = Transition{Start: t.now(), Duration: d}
		t.started = true
		t.animated++
	}
	action()
}

// Running returns the transition opened for the most recent Run and whether
// that run was animated. Update hooks call it to learn how their own
// delivery should be rendered.
func (t *Tracker) Running() (Transition, bool) {
	if !t.last {
		return Transition{}, false
	}
	return t.current, true
}

// Now returns the tracker's clock reading.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// Current returns the most recent transition and whether one was ever started.
func (t *Tracker) Current() (Transition, bool) {
	return t.current, t.started
}

// Active reports whether a transition is still running.
func (t *Tracker) Active() bool {
	return t.started && !t.current.Done(t.now())
}

// Progress returns the progress of the current transition, or 1 when idle.
func (t *Tracker) Progress() float64 {
	if !t.started {
		return 1
	}
	return t.current.Progress(t.now())
}

// Animated returns the number of animated runs so far.
func (t *Tracker) Animated() int {
	return t.animated
}

// Frame returns a command that emits a FrameMsg after FrameInterval while
// a transition is active, or nil when idle.
func (t *Tracker) Frame() tea.Cmd {
	if !t.Active() {
		return nil
	}
	return tea.Tick(FrameInterval, func(ts time.Time) tea.Msg {
		return FrameMsg{Time: ts}
	})
}
