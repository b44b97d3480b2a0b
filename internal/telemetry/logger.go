// Package telemetry wires logging and Prometheus metrics for the
// harness surfaces.
package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger configures the default slog logger with optional file
// output. Both destinations receive JSON records.
func InitLogger(debug bool, logFile string) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			slog.Error("Failed to open log file", "path", logFile, "error", err)
		} else {
			w = io.MultiWriter(os.Stdout, f)
		}
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
