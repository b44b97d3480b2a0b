//go:build !(linux || darwin)

package harness

func peakMemory() uint64 {
	return fallbackPeakMemory()
}
