package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// InitLogger creates a console logger writing to w.
//
// verbose forces debug level and quiet forces warn level, otherwise level is
// parsed, falling back to info when it isn't a zerolog level.
func InitLogger(w io.Writer, level string, verbose, quiet bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	switch {
	case verbose:
		lvl = zerolog.DebugLevel
	case quiet:
		lvl = zerolog.WarnLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}
