package harness

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Func is the workload signature. The handle carries the resolved
// multiplier and the extra-stat recorder for the owning benchmark.
// Returning ErrSkip records the benchmark as skipped.
type Func func(b *B) (float64, error)

// Builtin is a built-in benchmark, registered before any discovered
// module in its declared order.
type Builtin struct {
	Name string
	Fn   Func
}

// Module is one externally supplied benchmark module. Payload must be
// either a Func (registered under Name) or a map[string]Func (each
// registered under "Name::<sub>"). MinVersion, when set, is the lowest
// harness version the module accepts.
type Module struct {
	Name       string
	Payload    any
	MinVersion string
}

// Source yields benchmark modules. Discovery is reduced to calling each
// registered source in order; sources own whatever lookup convention
// (linked-in set, config list) produces their modules.
type Source func() ([]Module, error)

// RegistryError reports a malformed or unusable module. It aborts the
// run before any benchmark executes.
type RegistryError struct {
	Module string
	Reason string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry: module %q: %s", e.Module, e.Reason)
}

// Registry is the ordered name -> workload mapping for one run.
type Registry struct {
	names   []string
	entries map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Func)}
}

// Register adds a workload under name. A later registration for an
// existing name replaces the workload but keeps the name's original
// position (mapping-merge semantics).
func (r *Registry) Register(name string, fn Func) {
	if _, ok := r.entries[name]; !ok {
		r.names = append(r.names, name)
	}
	r.entries[name] = fn
}

// Names returns the registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get returns the workload registered under name.
func (r *Registry) Get(name string) (Func, bool) {
	fn, ok := r.entries[name]
	return fn, ok
}

func (r *Registry) Len() int { return len(r.names) }

// Build assembles the final registry: builtins in declared order, then
// modules from each source in discovery order. version is the harness
// version checked against module MinVersion constraints.
func Build(version string, builtins []Builtin, sources ...Source) (*Registry, error) {
	reg := NewRegistry()
	for _, b := range builtins {
		reg.Register(b.Name, b.Fn)
	}

	for _, src := range sources {
		modules, err := src()
		if err != nil {
			return nil, fmt.Errorf("registry: source failed: %w", err)
		}
		for _, m := range modules {
			if err := registerModule(reg, version, m); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

func registerModule(reg *Registry, version string, m Module) error {
	if m.MinVersion != "" {
		if semver.Compare(canonVersion(m.MinVersion), canonVersion(version)) > 0 {
			return &RegistryError{
				Module: m.Name,
				Reason: fmt.Sprintf("requires harness >= %s, running %s", m.MinVersion, version),
			}
		}
	}

	switch payload := m.Payload.(type) {
	case Func:
		reg.Register(m.Name, payload)
	case func(*B) (float64, error):
		reg.Register(m.Name, payload)
	case map[string]Func:
		// Sorted for deterministic registration order.
		subs := make([]string, 0, len(payload))
		for sub := range payload {
			subs = append(subs, sub)
		}
		sort.Strings(subs)
		for _, sub := range subs {
			reg.Register(m.Name+"::"+sub, payload[sub])
		}
	default:
		return &RegistryError{
			Module: m.Name,
			Reason: fmt.Sprintf("payload is %T, want workload func or map of workload funcs", m.Payload),
		}
	}
	return nil
}

func canonVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
