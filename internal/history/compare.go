package history

import (
	"fmt"

	"benchkit/internal/harness"
)

// Comparison is the per-benchmark delta between two runs.
type Comparison struct {
	Name        string
	PrevSeconds float64
	CurrSeconds float64
	DiffPercent float64
	New         bool // present in current run only
	Missing     bool // present in previous run only
}

// Compare walks the current run's benchmarks in report order and diffs
// elapsed time against the previous run, then reports previous entries
// that vanished from the current run. Skipped or failed entries on
// either side are excluded from diffing: their timings measure the
// failure path, not the workload.
func Compare(prev, curr *harness.Report) []Comparison {
	var out []Comparison
	for _, e := range curr.Benchmarks {
		if e.Outcome.Value == nil {
			continue
		}
		p, ok := prev.Benchmarks.Get(e.Name)
		if !ok || p.Value == nil {
			out = append(out, Comparison{
				Name:        e.Name,
				CurrSeconds: e.Outcome.Seconds,
				New:         true,
			})
			continue
		}

		c := Comparison{
			Name:        e.Name,
			PrevSeconds: p.Seconds,
			CurrSeconds: e.Outcome.Seconds,
		}
		if p.Seconds > 0 {
			c.DiffPercent = (e.Outcome.Seconds - p.Seconds) / p.Seconds * 100
		}
		out = append(out, c)
	}

	// A benchmark that disappeared between runs can mask a regression,
	// so it is reported rather than silently dropped.
	for _, e := range prev.Benchmarks {
		if e.Outcome.Value == nil {
			continue
		}
		if _, ok := curr.Benchmarks.Get(e.Name); ok {
			continue
		}
		out = append(out, Comparison{
			Name:        e.Name,
			PrevSeconds: e.Outcome.Seconds,
			Missing:     true,
		})
	}
	return out
}

func (c Comparison) String() string {
	switch {
	case c.New:
		return fmt.Sprintf("%s: new (%.4fs)", c.Name, c.CurrSeconds)
	case c.Missing:
		return fmt.Sprintf("%s: missing (was %.4fs)", c.Name, c.PrevSeconds)
	default:
		return fmt.Sprintf("%s: %+.2f%% time", c.Name, c.DiffPercent)
	}
}
