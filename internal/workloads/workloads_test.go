package workloads

import (
	"net/url"
	"testing"

	"benchkit/internal/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltins_NamesUniqueAndOrdered(t *testing.T) {
	builtins := Builtins()
	require.NotEmpty(t, builtins)

	seen := map[string]bool{}
	for _, b := range builtins {
		assert.False(t, seen[b.Name], "duplicate builtin %q", b.Name)
		assert.NotNil(t, b.Fn)
		seen[b.Name] = true
	}
	assert.Equal(t, "math", builtins[0].Name)
}

func TestBuiltins_RunAtLowMultiplier(t *testing.T) {
	h := harness.New("0.0.1", Builtins())

	report, err := h.RunValues(url.Values{"multiplier": {"0.01"}})
	require.NoError(t, err)
	require.Len(t, report.Benchmarks, len(Builtins()))

	for _, e := range report.Benchmarks {
		assert.Empty(t, e.Outcome.Error, "builtin %q failed: %s", e.Name, e.Outcome.Error)
		if !e.Outcome.Skipped {
			assert.NotNil(t, e.Outcome.Value, "builtin %q has no result", e.Name)
		}
	}
}

func TestHashRecordsExtraStats(t *testing.T) {
	h := harness.New("0.0.1", Builtins())

	report, err := h.RunValues(url.Values{"multiplier": {"0.01"}})
	require.NoError(t, err)

	names := map[string]bool{}
	for _, s := range report.Extra {
		names[s.Name] = true
	}
	assert.True(t, names["hash::rounds"])
	assert.True(t, names["hash::bytes_hashed"])
	assert.True(t, names["compress::ratio"])
}

func TestCompressRatioAboveOne(t *testing.T) {
	h := harness.New("0.0.1", Builtins())

	report, err := h.RunValues(url.Values{"multiplier": {"0.01"}})
	require.NoError(t, err)

	for _, s := range report.Extra {
		if s.Name == "compress::ratio" {
			assert.Greater(t, s.Value, 1.0, "repetitive payload must compress")
			return
		}
	}
	t.Fatal("compress::ratio not recorded")
}
