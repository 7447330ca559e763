// Package logging configures the global zerolog logger for the devbin tools.
// Logs go to stderr so stdout stays clean for piping.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devbin/devbin/internal/term"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "DEVBIN_LOG_LEVEL"

// Setup points the global logger at w with a console format. verbose forces
// debug; otherwise DEVBIN_LOG_LEVEL or warn applies.
func Setup(w io.Writer, verbose bool) {
	level := zerolog.WarnLevel
	if v := os.Getenv(EnvLevel); v != "" {
		if l, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = l
		}
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}
	log.Logger = zerolog.New(cw).Level(level).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f)
}
