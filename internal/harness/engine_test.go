package harness

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances a fixed amount on every Now call, so elapsed
// values are deterministic.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{now: time.Unix(1700000000, 0), step: step}
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestEngine_FailureIsolation(t *testing.T) {
	reg := NewRegistry()
	reg.Register("alpha", func(b *B) (float64, error) {
		return 0, errors.New("boom")
	})
	reg.Register("beta", func(b *B) (float64, error) {
		return 42, nil
	})

	engine := NewEngine(newStepClock(time.Millisecond))
	results, _, _ := engine.Run(reg, Config{"multiplier": 1.0})

	require.Len(t, results, 2)

	alpha, ok := results.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "boom", alpha.Error)
	assert.Nil(t, alpha.Value)
	assert.False(t, alpha.Skipped)
	assert.Greater(t, alpha.Seconds, 0.0)

	beta, ok := results.Get("beta")
	require.True(t, ok)
	require.NotNil(t, beta.Value)
	assert.Equal(t, 42.0, *beta.Value)
	assert.Empty(t, beta.Error)
}

func TestEngine_PanicRecovered(t *testing.T) {
	reg := NewRegistry()
	reg.Register("panicky", func(b *B) (float64, error) {
		panic("nope")
	})
	reg.Register("calm", func(b *B) (float64, error) {
		return 1, nil
	})

	engine := NewEngine(newStepClock(time.Millisecond))
	results, _, _ := engine.Run(reg, Config{"multiplier": 1.0})

	require.Len(t, results, 2)
	panicky, _ := results.Get("panicky")
	assert.Contains(t, panicky.Error, "panic: nope")
	calm, _ := results.Get("calm")
	assert.NotNil(t, calm.Value)
}

func TestEngine_Skip(t *testing.T) {
	reg := NewRegistry()
	reg.Register("maybe", func(b *B) (float64, error) {
		return 0, ErrSkip
	})

	engine := NewEngine(newStepClock(time.Millisecond))
	results, _, _ := engine.Run(reg, Config{"multiplier": 1.0})

	outcome, ok := results.Get("maybe")
	require.True(t, ok)
	assert.True(t, outcome.Skipped)
	assert.Nil(t, outcome.Value)
	assert.Empty(t, outcome.Error)
	assert.Greater(t, outcome.Seconds, 0.0)
}

func TestEngine_WrappedSkip(t *testing.T) {
	reg := NewRegistry()
	reg.Register("wrapped", func(b *B) (float64, error) {
		return 0, fmt.Errorf("no accelerator: %w", ErrSkip)
	})

	engine := NewEngine(newStepClock(time.Millisecond))
	results, _, _ := engine.Run(reg, Config{"multiplier": 1.0})

	outcome, _ := results.Get("wrapped")
	assert.True(t, outcome.Skipped)
}

func TestEngine_TotalIsExactSum(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("bench-%d", i)
		switch i % 3 {
		case 0:
			reg.Register(name, func(b *B) (float64, error) { return 1, nil })
		case 1:
			reg.Register(name, func(b *B) (float64, error) { return 0, ErrSkip })
		default:
			reg.Register(name, func(b *B) (float64, error) { return 0, errors.New("x") })
		}
	}

	engine := NewEngine(newStepClock(7 * time.Millisecond))
	results, _, totals := engine.Run(reg, Config{"multiplier": 1.0})

	var sum float64
	for _, e := range results {
		sum += e.Outcome.Seconds
	}
	// Pure summation of measured intervals, so exact equality holds.
	assert.Equal(t, sum, totals.TotalTimeSeconds)
	assert.NotZero(t, totals.PeakMemory)
}

func TestEngine_RegistryOrderPreserved(t *testing.T) {
	reg := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		reg.Register(name, func(b *B) (float64, error) { return 0, nil })
	}

	engine := NewEngine(newStepClock(time.Millisecond))
	results, _, _ := engine.Run(reg, Config{"multiplier": 1.0})

	got := make([]string, 0, len(results))
	for _, e := range results {
		got = append(got, e.Name)
	}
	assert.Equal(t, names, got)
}

func TestEngine_ExtraStatsTagged(t *testing.T) {
	reg := NewRegistry()
	reg.Register("hash", func(b *B) (float64, error) {
		b.ReportExtra("bytes_hashed", 1024)
		b.ReportExtra("rounds", 3)
		return 1, nil
	})
	reg.Register("quiet", func(b *B) (float64, error) { return 1, nil })

	engine := NewEngine(newStepClock(time.Millisecond))
	_, extra, _ := engine.Run(reg, Config{"multiplier": 1.0})

	require.Len(t, extra, 2)
	assert.Equal(t, "hash::bytes_hashed", extra[0].Name)
	assert.Equal(t, 1024.0, extra[0].Value)
	assert.Equal(t, "hash::rounds", extra[1].Name)
}

func TestB_Scale(t *testing.T) {
	b := &B{name: "x", multiplier: 2.0}
	assert.Equal(t, 200, b.Scale(100))

	b.multiplier = 0.001
	assert.Equal(t, 1, b.Scale(100), "scaled count never drops below one")
}

func TestB_Multiplier(t *testing.T) {
	reg := NewRegistry()
	var seen float64
	reg.Register("probe", func(b *B) (float64, error) {
		seen = b.Multiplier()
		return 0, nil
	})

	engine := NewEngine(newStepClock(time.Millisecond))
	engine.Run(reg, Config{"multiplier": 2.5})
	assert.Equal(t, 2.5, seen)
}
