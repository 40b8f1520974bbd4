// README: zerolog root logger construction.
package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger all services hang off. JSON to stdout;
// set pretty for human-readable local output.
func NewLogger(pretty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
