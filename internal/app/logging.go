package app

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// LogFileName is the log file inside the config directory.
const LogFileName = Name + ".log"

// NewLogger writes JSON lines to the log file in configDir, and a human
// readable copy to stderr when verbose is set. The returned closer closes the
// log file.
func NewLogger(configDir, level string, verbose bool) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(filepath.Join(configDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var w io.Writer = f
	if verbose {
		w = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	logger := zerolog.New(w).Level(lvl).With().Timestamp().Str("app", Name).Logger()
	return logger, f, nil
}
