package harness

import (
	"runtime"
	"time"
)

// buildInfo collects read-only facts about the execution environment.
func buildInfo(version string, multiplier float64, startedAt time.Time) Info {
	return Info{
		Version:   version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		Features: map[string]bool{
			"race":      raceEnabled,
			"cgo":       cgoEnabled,
			"multi_cpu": runtime.NumCPU() > 1,
		},
		Multiplier: multiplier,
		StartedAt:  startedAt,
	}
}

// assemble combines environment metadata, per-benchmark outcomes, extra
// stats and totals into one report. It aggregates only; all timing was
// computed upstream by the engine.
func assemble(info Info, results Results, extra []ExtraStat, totals Totals) *Report {
	r := &Report{
		Info:       info,
		Benchmarks: results,
		Totals:     totals,
	}
	if len(extra) > 0 {
		r.Extra = extra
	}
	return r
}
