package obs

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure the global logger. Output is human readable unless format is "JSON".
func SetupLogger(format string, debug bool) {
	SetupLoggerTo(os.Stderr, format, debug)
}

func SetupLoggerTo(w io.Writer, format string, debug bool) {
	if format != "JSON" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	}

	if debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}
}
