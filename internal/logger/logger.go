// Package logger wraps a process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = discard()
	file *os.File
)

func discard() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// Init configures the global logger.
// level is one of "debug", "info", "warn", "error"; anything else means info.
// When path is set, output goes there instead of stderr so a running TUI
// keeps the terminal to itself.
func Init(level string, path string) error {
	var logLevel zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	var f *os.File
	if path != "" {
		var err error
		f, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		output = zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}
	}

	l := zerolog.New(output).Level(logLevel).With().Timestamp().Logger()

	mu.Lock()
	defer mu.Unlock()
	closeFile()
	base = &l
	file = f
	return nil
}

// Close closes the log file, if any, and discards further
// output until the next Init.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	base = discard()
}

func closeFile() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
}

// Get returns the global logger, discarding output until Init is called.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Debug starts a debug event
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info starts an info event
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn starts a warning event
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error starts an error event
func Error() *zerolog.Event {
	return Get().Error()
}
