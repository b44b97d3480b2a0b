//go:build linux || darwin

package harness

import (
	"runtime"
	"syscall"
)

// peakMemory returns the process peak resident set size in bytes.
func peakMemory() uint64 {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return fallbackPeakMemory()
	}
	maxrss := uint64(ru.Maxrss)
	if runtime.GOOS == "linux" {
		// ru_maxrss is kilobytes on Linux, bytes on Darwin.
		maxrss *= 1024
	}
	return maxrss
}
