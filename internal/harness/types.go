package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Info describes the environment a run executed in.
type Info struct {
	Version    string          `json:"version"`
	GoVersion  string          `json:"go_version"`
	Platform   string          `json:"platform"`
	Arch       string          `json:"arch"`
	Features   map[string]bool `json:"feature_flags"`
	Multiplier float64         `json:"multiplier"`
	StartedAt  time.Time       `json:"started_at"`
}

// Outcome is the per-benchmark result. Exactly one of Value, Skipped or
// Error is set; Seconds is recorded for every outcome.
type Outcome struct {
	Value   *float64 `json:"result,omitempty"`
	Skipped bool     `json:"skipped,omitempty"`
	Error   string   `json:"error,omitempty"`
	Seconds float64  `json:"time"`
}

// Entry pairs a benchmark name with its outcome.
type Entry struct {
	Name    string
	Outcome Outcome
}

// Results is the ordered set of per-benchmark outcomes. It serializes as
// a JSON object whose key order matches registry insertion order.
type Results []Entry

// ExtraStat is a supplementary measurement attached by a workload,
// tagged "<benchmark>::<stat>".
type ExtraStat struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Totals holds run-wide aggregates.
type Totals struct {
	TotalTimeSeconds float64 `json:"total_time_seconds"`
	PeakMemory       uint64  `json:"peak_memory"`
}

// Report is the complete result of one harness run.
type Report struct {
	Info       Info        `json:"info"`
	Benchmarks Results     `json:"benchmarks"`
	Extra      []ExtraStat `json:"extra,omitempty"`
	Totals     Totals      `json:"totals"`
}

func (rs Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		out, err := json.Marshal(e.Outcome)
		if err != nil {
			return nil, err
		}
		buf.Write(out)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (rs *Results) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("benchmarks: expected object, got %v", tok)
	}

	out := Results{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("benchmarks: expected string key, got %v", keyTok)
		}
		var o Outcome
		if err := dec.Decode(&o); err != nil {
			return fmt.Errorf("benchmarks: entry %q: %w", name, err)
		}
		out = append(out, Entry{Name: name, Outcome: o})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*rs = out
	return nil
}

// Get returns the outcome for name, preserving lookup convenience in
// tests and the comparison code.
func (rs Results) Get(name string) (Outcome, bool) {
	for _, e := range rs {
		if e.Name == name {
			return e.Outcome, true
		}
	}
	return Outcome{}, false
}
