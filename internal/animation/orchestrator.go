package animation

import (
	"go.uber.org/zap"

	"github.com/Faultbox/strokeglyph/internal/logger"
	"github.com/Faultbox/strokeglyph/internal/timing"
)

// Uniforms is the per-stroke parameter block consumed by the dissolve shader.
type Uniforms struct {
	RevealStrength float64
	ElapsedTime    float64 // seconds
	NoiseScale     float64
	NoiseStrength  float64
	NoiseSpeed     float64
}

// TimingConfig holds the schedule budget in milliseconds.
type TimingConfig struct {
	TotalDuration     float64 `yaml:"total_duration"`
	MinStrokeDuration float64 `yaml:"min_stroke_duration"`
}

// DefaultTimingConfig returns a five second budget with a half second floor.
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{TotalDuration: 5000, MinStrokeDuration: 500}
}

// Options tunes an Orchestrator.
type Options struct {
	Easing Easing
}

// Orchestrator owns one StrokeAnimator per live stroke and is the only writer
// of reveal strength and elapsed time into stroke parameter blocks.
type Orchestrator struct {
	trigger   *TriggerCounter
	rng       timing.Rand
	opts      Options
	animators []*StrokeAnimator
	timings   []timing.StrokeTiming
	cfg       TimingConfig
	lastSeen  uint64
	replays   int
	startedAt float64
}

// NewOrchestrator creates an orchestrator with no strokes. The trigger's
// current value is taken as already seen, so nothing plays until it is bumped
// or strokes are set.
func NewOrchestrator(trigger *TriggerCounter, rng timing.Rand, opts Options) *Orchestrator {
	if trigger == nil {
		trigger = &TriggerCounter{}
	}
	return &Orchestrator{
		trigger:  trigger,
		rng:      rng,
		opts:     opts,
		cfg:      DefaultTimingConfig(),
		lastSeen: trigger.Value(),
	}
}

// SetStrokes replaces the animator set for a new character of n strokes and
// starts a reveal with freshly allocated timings.
func (o *Orchestrator) SetStrokes(now float64, n int, cfg TimingConfig) {
	o.animators = make([]*StrokeAnimator, max(n, 0))
	for i := range o.animators {
		o.animators[i] = NewStrokeAnimator(o.opts.Easing)
	}
	o.SetTiming(now, cfg)
}

// SetTiming reallocates the schedule for the current strokes and restarts the
// reveal. Geometry is untouched.
func (o *Orchestrator) SetTiming(now float64, cfg TimingConfig) {
	o.cfg = cfg
	o.timings = timing.Allocate(len(o.animators), cfg.TotalDuration, cfg.MinStrokeDuration, o.rng)
	o.animateAll(now)

	logger.Named("animation").Debug("timings allocated",
		zap.Int("strokes", len(o.timings)),
		zap.Float64("total_ms", timing.Total(o.timings)))
}

// Replay restarts every animator with the timing it already has.
func (o *Orchestrator) Replay(now float64) {
	o.replays++
	o.animateAll(now)
	logger.Named("animation").Debug("replay", zap.Int("strokes", len(o.animators)), zap.Int("count", o.replays))
}

func (o *Orchestrator) animateAll(now float64) {
	o.startedAt = now
	for i, a := range o.animators {
		t := o.timings[i]
		a.Animate(now, t.Duration, t.Delay)
	}
}

// Update polls the replay trigger, steps every animator in index order and
// writes the result into params. params shorter than the stroke count only
// receive the leading strokes. now is in milliseconds.
func (o *Orchestrator) Update(now float64, params []Uniforms) {
	if v := o.trigger.Value(); v > o.lastSeen {
		o.lastSeen = v
		o.Replay(now)
	}

	for i, a := range o.animators {
		s := a.Step(now)
		if i < len(params) {
			params[i].RevealStrength = s
			params[i].ElapsedTime = now / 1000
		}
	}
}

// Len returns the number of live strokes.
func (o *Orchestrator) Len() int {
	return len(o.animators)
}

// Animator returns the animator for stroke i.
func (o *Orchestrator) Animator(i int) *StrokeAnimator {
	return o.animators[i]
}

// Timings returns a copy of the allocated schedule.
func (o *Orchestrator) Timings() []timing.StrokeTiming {
	return append([]timing.StrokeTiming(nil), o.timings...)
}

// Config returns the timing config of the current schedule.
func (o *Orchestrator) Config() TimingConfig {
	return o.cfg
}

// Replays returns how many trigger-driven or explicit replays have run.
func (o *Orchestrator) Replays() int {
	return o.replays
}

// Done reports whether the last reveal has finished by now.
func (o *Orchestrator) Done(now float64) bool {
	return now >= o.startedAt+timing.Total(o.timings)
}
