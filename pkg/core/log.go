package core

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var Logger = zerolog.Nop()

// InitLogger sets up the console logger on stdout. An unknown level falls
// back to info.
func InitLogger(level string) zerolog.Logger {
	return InitLoggerTo(os.Stdout, level)
}

func InitLoggerTo(out io.Writer, level string) zerolog.Logger {
	console := &zerolog.ConsoleWriter{Out: out}
	console.NoColor = !isTerminal(out)
	console.TimeFormat = "15:04:05.000"

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	Logger = zerolog.New(console).Level(lvl).With().Timestamp().Logger()

	return Logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
