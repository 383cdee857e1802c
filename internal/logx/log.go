package logx

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Log is the shared logger used throughout the project.
var Log zerolog.Logger

func init() {
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	Log = newLogger(os.Stderr, os.Getenv("ENV"), false)
}

// Configure rebuilds the stderr logger once ENV is known. Production writes
// JSON lines; every other environment gets the coloured console format.
func Configure(env string) {
	Log = newLogger(os.Stderr, env, false)
}

// SetOutput redirects the shared logger to w without colour codes.
func SetOutput(w io.Writer) {
	Log = newLogger(w, os.Getenv("ENV"), true)
}

func newLogger(w io.Writer, env string, noColor bool) zerolog.Logger {
	if strings.EqualFold(env, "production") {
		return zerolog.New(w).With().Timestamp().Logger()
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		noColor = true
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.TimeOnly}
	return zerolog.New(out).With().Timestamp().Logger()
}
