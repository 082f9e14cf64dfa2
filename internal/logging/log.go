package logging

import (
	"log/slog"
	"os"
)

// New returns a JSON logger tagged with the component name. Level comes from
// LOG_LEVEL (debug, warn; default info).
func New(component string) *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}
