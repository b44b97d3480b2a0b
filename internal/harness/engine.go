package harness

import (
	"errors"
	"fmt"
)

// ErrSkip is returned by a workload to record the benchmark as skipped
// rather than succeeded or failed. Check with errors.Is.
var ErrSkip = errors.New("benchmark skipped")

// B is the per-benchmark execution handle passed to each workload. It
// replaces process-global "current benchmark" state: extra stats are
// tagged through the handle, so two handles can never race over a
// shared name.
type B struct {
	name       string
	multiplier float64
	extra      *[]ExtraStat
}

// Name returns the owning benchmark's registry name.
func (b *B) Name() string { return b.name }

// Multiplier returns the resolved scale factor for this run.
func (b *B) Multiplier() float64 { return b.multiplier }

// Scale applies the multiplier to a workload's default iteration count.
// The result is never below one.
func (b *B) Scale(n int) int {
	scaled := int(float64(n) * b.multiplier)
	if scaled < 1 {
		return 1
	}
	return scaled
}

// ReportExtra attaches a supplementary measurement beyond the default
// timing, recorded as "<benchmark>::<stat>".
func (b *B) ReportExtra(stat string, value float64) {
	*b.extra = append(*b.extra, ExtraStat{
		Name:  b.name + "::" + stat,
		Value: value,
	})
}

// Engine runs every registered benchmark sequentially, isolating each
// failure to its own entry.
type Engine struct {
	clock Clock
}

func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{clock: clock}
}

// Run executes the registry in order. It returns one outcome per
// registered benchmark, the extra stats recorded during the run, and
// the run totals. Total time is the exact sum of the per-benchmark
// elapsed values, not a wall-clock measurement of the whole run.
func (e *Engine) Run(reg *Registry, cfg Config) (Results, []ExtraStat, Totals) {
	multiplier := cfg.Multiplier()
	extra := make([]ExtraStat, 0)
	results := make(Results, 0, reg.Len())

	var totalSeconds float64
	for _, name := range reg.Names() {
		fn, _ := reg.Get(name)
		outcome := e.runOne(name, fn, multiplier, &extra)
		totalSeconds += outcome.Seconds
		results = append(results, Entry{Name: name, Outcome: outcome})
	}

	totals := Totals{
		TotalTimeSeconds: totalSeconds,
		PeakMemory:       peakMemory(),
	}
	return results, extra, totals
}

func (e *Engine) runOne(name string, fn Func, multiplier float64, extra *[]ExtraStat) Outcome {
	b := &B{name: name, multiplier: multiplier, extra: extra}

	start := e.clock.Now()
	value, err := invoke(fn, b)
	elapsed := e.clock.Now().Sub(start).Seconds()

	switch {
	case err == nil:
		return Outcome{Value: &value, Seconds: elapsed}
	case errors.Is(err, ErrSkip):
		return Outcome{Skipped: true, Seconds: elapsed}
	default:
		return Outcome{Error: err.Error(), Seconds: elapsed}
	}
}

// invoke shields the engine from a panicking workload. A single
// benchmark's failure must never abort the run.
func invoke(fn Func, b *B) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(b)
}
