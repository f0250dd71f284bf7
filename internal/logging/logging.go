package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process-wide logger. format is "text" for a console
// writer or "json" for machine-readable output; anything else falls back
// to json so a typo never silences the pipeline.
func Setup(format string) zerolog.Logger {
	base := zerolog.New(os.Stderr)
	if format == "text" {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
	return base.With().Timestamp().Logger()
}

// Nop returns a logger that discards everything; used by tests that only
// care about behavior, not output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
