package harness

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuiltins() []Builtin {
	return []Builtin{
		{Name: "math", Fn: func(b *B) (float64, error) { return 3.14, nil }},
		{Name: "hash", Fn: func(b *B) (float64, error) {
			b.ReportExtra("bytes_hashed", 2048)
			return 1, nil
		}},
		{Name: "flaky", Fn: func(b *B) (float64, error) { return 0, errors.New("broken") }},
		{Name: "optional", Fn: func(b *B) (float64, error) { return 0, ErrSkip }},
	}
}

func TestHarness_RunValues(t *testing.T) {
	h := New("0.3.0", testBuiltins(), WithClock(newStepClock(time.Millisecond)))

	report, err := h.RunValues(url.Values{"multiplier": {"2"}})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2.0, report.Info.Multiplier)
	require.Len(t, report.Benchmarks, 4)

	math, _ := report.Benchmarks.Get("math")
	require.NotNil(t, math.Value)
	assert.Equal(t, 3.14, *math.Value)

	flaky, _ := report.Benchmarks.Get("flaky")
	assert.Equal(t, "broken", flaky.Error)

	optional, _ := report.Benchmarks.Get("optional")
	assert.True(t, optional.Skipped)

	require.Len(t, report.Extra, 1)
	assert.Equal(t, "hash::bytes_hashed", report.Extra[0].Name)

	var sum float64
	for _, e := range report.Benchmarks {
		sum += e.Outcome.Seconds
	}
	assert.Equal(t, sum, report.Totals.TotalTimeSeconds)
}

func TestHarness_RunArgs(t *testing.T) {
	h := New("0.3.0", testBuiltins(), WithClock(newStepClock(time.Millisecond)))

	report, err := h.RunArgs([]string{"multiplier=0.5"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, report.Info.Multiplier)
}

func TestHarness_HookOrdering(t *testing.T) {
	var order []string
	builtins := []Builtin{{Name: "only", Fn: func(b *B) (float64, error) {
		order = append(order, "bench")
		return 0, nil
	}}}

	h := New("0.3.0", builtins, WithClock(newStepClock(time.Millisecond)))
	h.Hooks().OnSetup(func(cfg Config) error {
		order = append(order, "setup")
		return nil
	})
	h.Hooks().OnTeardown(func(cfg Config) error {
		order = append(order, "teardown")
		return nil
	})

	_, err := h.RunValues(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, []string{"setup", "bench", "teardown"}, order)
}

func TestHarness_SetupFailureProducesNoReport(t *testing.T) {
	h := New("0.3.0", testBuiltins())
	h.Hooks().OnSetup(func(cfg Config) error { return errors.New("no workspace") })

	report, err := h.RunValues(url.Values{})
	require.Error(t, err)
	assert.Nil(t, report)

	var hookErr *HookError
	assert.True(t, errors.As(err, &hookErr))
}

func TestHarness_TeardownFailureProducesNoReport(t *testing.T) {
	h := New("0.3.0", testBuiltins())
	h.Hooks().OnTeardown(func(cfg Config) error { return errors.New("flush failed") })

	report, err := h.RunValues(url.Values{})
	require.Error(t, err)
	assert.Nil(t, report)
}

func TestHarness_RegistryErrorProducesNoReport(t *testing.T) {
	broken := func() ([]Module, error) {
		return []Module{{Name: "bad", Payload: 42}}, nil
	}
	h := New("0.3.0", testBuiltins(), WithSource(broken))

	setupRan := false
	h.Hooks().OnSetup(func(cfg Config) error { setupRan = true; return nil })

	report, err := h.RunValues(url.Values{})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.False(t, setupRan, "registry build failure aborts before hooks")
}

func TestHarness_DiscoveredSourceExtendsRegistry(t *testing.T) {
	src := func() ([]Module, error) {
		return []Module{{Name: "extra", Payload: Func(func(b *B) (float64, error) {
			return 11, nil
		})}}, nil
	}
	h := New("0.3.0", testBuiltins(), WithSource(src), WithClock(newStepClock(time.Millisecond)))

	report, err := h.RunValues(url.Values{})
	require.NoError(t, err)

	outcome, ok := report.Benchmarks.Get("extra")
	require.True(t, ok)
	require.NotNil(t, outcome.Value)
	assert.Equal(t, 11.0, *outcome.Value)
	assert.Equal(t, "extra", report.Benchmarks[len(report.Benchmarks)-1].Name)
}

func TestHarness_DeclaredOptionReachesHooks(t *testing.T) {
	h := New("0.3.0", testBuiltins(), WithClock(newStepClock(time.Millisecond)))
	h.Resolver().Declare("warmup", false)

	var warmup any
	h.Hooks().OnSetup(func(cfg Config) error {
		warmup = cfg["warmup"]
		return nil
	})

	_, err := h.RunValues(url.Values{"warmup": {"true"}, "ignored": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, true, warmup)
}

func TestHarness_FreshExtraListPerRun(t *testing.T) {
	h := New("0.3.0", []Builtin{
		{Name: "hash", Fn: func(b *B) (float64, error) {
			b.ReportExtra("rounds", 1)
			return 0, nil
		}},
	}, WithClock(newStepClock(time.Millisecond)))

	first, err := h.RunValues(url.Values{})
	require.NoError(t, err)
	second, err := h.RunValues(url.Values{})
	require.NoError(t, err)

	assert.Len(t, first.Extra, 1)
	assert.Len(t, second.Extra, 1, "extra stats must not accumulate across runs")
}
