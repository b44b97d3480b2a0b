package harness

import "fmt"

// HookFunc receives the resolved run configuration.
type HookFunc func(cfg Config) error

// HookError reports a failed setup or teardown hook. Hooks are harness
// infrastructure, not benchmark payloads: their failures abort the run
// and produce no report.
type HookError struct {
	Phase string // "setup" or "teardown"
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook failed: %v", e.Phase, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// Hooks holds ordered setup and teardown callbacks, each run exactly
// once per harness invocation.
type Hooks struct {
	setup    []HookFunc
	teardown []HookFunc
}

func NewHooks() *Hooks { return &Hooks{} }

// OnSetup registers fn to run after config resolution and before any
// benchmark, in registration order.
func (h *Hooks) OnSetup(fn HookFunc) { h.setup = append(h.setup, fn) }

// OnTeardown registers fn to run after the last benchmark completes and
// before the report is assembled, in registration order.
func (h *Hooks) OnTeardown(fn HookFunc) { h.teardown = append(h.teardown, fn) }

func (h *Hooks) runSetup(cfg Config) error {
	for _, fn := range h.setup {
		if err := fn(cfg); err != nil {
			return &HookError{Phase: "setup", Err: err}
		}
	}
	return nil
}

func (h *Hooks) runTeardown(cfg Config) error {
	for _, fn := range h.teardown {
		if err := fn(cfg); err != nil {
			return &HookError{Phase: "teardown", Err: err}
		}
	}
	return nil
}
