// Package animation drives the per-stroke reveal state machines and the
// orchestrator that schedules them.
//
// Reveal strength follows the dissolve convention: 1 means the stroke is fully
// dissolved (hidden) and 0 means it is fully resolved (visible).
package animation

import "github.com/Faultbox/strokeglyph/internal/timing"

// Phase is the reveal state of one stroke.
type Phase int

const (
	PhaseIdle      Phase = iota // hidden, nothing scheduled
	PhaseRevealing              // scheduled or interpolating towards visible
	PhaseSettled                // fully visible until retriggered
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRevealing:
		return "revealing"
	case PhaseSettled:
		return "settled"
	}
	return "unknown"
}

// Hidden and Visible are the reveal strengths at either end of a reveal.
const (
	Hidden  = 1.0
	Visible = 0.0
)

// State is a snapshot of an animator.
type State struct {
	RevealStrength float64
	Phase          Phase
}

// StrokeAnimator reveals one stroke. It holds no clock of its own: every call
// takes the current time in milliseconds and Step is a pure function of it.
type StrokeAnimator struct {
	// Easing shapes the 1 to 0 transition. Nil means EaseInOutCubic.
	Easing Easing

	state  State
	timing timing.StrokeTiming
	start  float64 // absolute time the interpolation begins
}

// NewStrokeAnimator returns an idle, hidden animator.
func NewStrokeAnimator(easing Easing) *StrokeAnimator {
	return &StrokeAnimator{
		Easing: easing,
		state:  State{RevealStrength: Hidden, Phase: PhaseIdle},
	}
}

// Animate snaps the stroke back to hidden and schedules a reveal that starts
// delay ms after now and lasts duration ms. Any reveal in flight is dropped.
func (a *StrokeAnimator) Animate(now, duration, delay float64) {
	a.timing = timing.StrokeTiming{Duration: duration, Delay: delay}
	a.start = now + delay
	a.state = State{RevealStrength: Hidden, Phase: PhaseRevealing}
}

// Reset hides the stroke and cancels any scheduled reveal.
func (a *StrokeAnimator) Reset() {
	a.state = State{RevealStrength: Hidden, Phase: PhaseIdle}
}

// Step advances the animator to now and returns its reveal strength.
func (a *StrokeAnimator) Step(now float64) float64 {
	if a.state.Phase != PhaseRevealing {
		return a.state.RevealStrength
	}

	elapsed := now - a.start
	switch {
	case elapsed <= 0:
		a.state.RevealStrength = Hidden
	case a.timing.Duration <= 0 || elapsed >= a.timing.Duration:
		a.state = State{RevealStrength: Visible, Phase: PhaseSettled}
	default:
		ease := a.Easing
		if ease == nil {
			ease = EaseInOutCubic
		}
		a.state.RevealStrength = Hidden - (Hidden-Visible)*ease(elapsed/a.timing.Duration)
	}
	return a.state.RevealStrength
}

// State returns the state as of the last Step, Animate or Reset.
func (a *StrokeAnimator) State() State {
	return a.state
}

// Timing returns the duration and delay of the last Animate call.
func (a *StrokeAnimator) Timing() timing.StrokeTiming {
	return a.timing
}
