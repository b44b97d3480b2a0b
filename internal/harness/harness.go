// Package harness implements an extensible micro-benchmark harness:
// an ordered registry of named workloads, each independently timed and
// isolated from the others' failures, configurable via a multiplier and
// summarized into a single structured report.
package harness

import (
	"log/slog"
	"net/url"
)

// Harness is the single entry point: given ambient configuration input
// and the registered benchmark sources, one invocation produces one
// Report or one top-level error. There is never a partial report.
type Harness struct {
	version  string
	builtins []Builtin
	sources  []Source
	resolver *Resolver
	hooks    *Hooks
	clock    Clock
}

// Option customizes a Harness at construction time.
type Option func(*Harness)

// WithClock replaces the system clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(h *Harness) { h.clock = c }
}

// WithSource appends a benchmark module source. Sources are consulted
// in registration order after the built-ins.
func WithSource(src Source) Option {
	return func(h *Harness) { h.sources = append(h.sources, src) }
}

// New builds a harness over the given built-in benchmark set.
func New(version string, builtins []Builtin, opts ...Option) *Harness {
	h := &Harness{
		version:  version,
		builtins: builtins,
		resolver: NewResolver(),
		hooks:    NewHooks(),
		clock:    SystemClock(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Resolver exposes the argument resolver so callers can declare
// additional recognized options before running.
func (h *Harness) Resolver() *Resolver { return h.resolver }

// Hooks exposes the lifecycle hook registry.
func (h *Harness) Hooks() *Hooks { return h.hooks }

// RunValues runs the harness with query-string-style input.
func (h *Harness) RunValues(values url.Values) (*Report, error) {
	cfg, err := h.resolver.FromValues(values)
	if err != nil {
		return nil, err
	}
	return h.run(cfg)
}

// RunArgs runs the harness with CLI-style key=value input.
func (h *Harness) RunArgs(args []string) (*Report, error) {
	cfg, err := h.resolver.FromArgs(args)
	if err != nil {
		return nil, err
	}
	return h.run(cfg)
}

func (h *Harness) run(cfg Config) (*Report, error) {
	reg, err := Build(h.version, h.builtins, h.sources...)
	if err != nil {
		return nil, err
	}

	if err := h.hooks.runSetup(cfg); err != nil {
		return nil, err
	}

	startedAt := h.clock.Now()
	slog.Debug("starting benchmark run",
		"benchmarks", reg.Len(), "multiplier", cfg.Multiplier())

	engine := NewEngine(h.clock)
	results, extra, totals := engine.Run(reg, cfg)

	if err := h.hooks.runTeardown(cfg); err != nil {
		return nil, err
	}

	info := buildInfo(h.version, cfg.Multiplier(), startedAt)
	report := assemble(info, results, extra, totals)
	slog.Debug("benchmark run complete",
		"total_time_seconds", totals.TotalTimeSeconds, "peak_memory", totals.PeakMemory)
	return report, nil
}
