package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger builds a console logger at the named level. debug overrides the level.
func SetupLogger(level string, debug bool) (*log.Logger, error) {
	return newLogger(os.Stderr, level, debug)
}

// SetupFileLogger writes to path instead of the terminal, for programs that own the screen.
// The returned closer must be called on exit.
func SetupFileLogger(path, level string, debug bool) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger, err := newLogger(f, level, debug)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

func newLogger(w io.Writer, level string, debug bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if debug {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}), nil
}
