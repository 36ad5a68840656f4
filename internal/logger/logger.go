package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	APP        = "APP"
	CHAT       = "CHAT"
	CONFIG     = "CONFIG"
	HANDLER    = "HANDLER"
	MIDDLEWARE = "MIDDLEWARE"
	REDIS      = "REDIS"
	SERVICE    = "SERVICE"
	STORAGE    = "STORAGE"
	UI         = "UI"
	WIDGET     = "WIDGET"
)

var (
	mu   sync.RWMutex
	base = newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, getLogLevel())
)

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func getLogLevel() zerolog.Level {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetOutput redirects all log output to w as JSON lines, keeping the level
// from LOG_LEVEL. The terminal widget uses it to keep logs off the screen.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(w, getLogLevel())
}

// SetConsoleOutput writes human readable lines to w.
func SetConsoleOutput(w io.Writer) {
	SetOutput(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true})
}

func write(level zerolog.Level, namespace, format string, v ...interface{}) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.WithLevel(level).Str("ns", namespace).Msg(fmt.Sprintf(format, v...))
}

func Debug(namespace, format string, v ...interface{}) {
	write(zerolog.DebugLevel, namespace, format, v...)
}

func Info(namespace, format string, v ...interface{}) {
	write(zerolog.InfoLevel, namespace, format, v...)
}

func Warn(namespace, format string, v ...interface{}) {
	write(zerolog.WarnLevel, namespace, format, v...)
}

func Error(namespace, format string, v ...interface{}) {
	write(zerolog.ErrorLevel, namespace, format, v...)
}
