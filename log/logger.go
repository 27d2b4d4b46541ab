// Package log provides named, leveled loggers shared by every aton package.
package log

import (
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

type Level logging.Level

// Levels accepted by SetLevel, from the most to the least verbose.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[string]Level{
	"debug":   Debug,
	"info":    Info,
	"notice":  Notice,
	"warning": Warning,
	"error":   Error,
}

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module:-11s} %{level:.4s}%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Current level, reapplied when the sink changes.
var level = Notice

// Logger is implemented by the loggers returned from New.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// Create a new logger tagged with a module name.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects every logger to sink. The current level is kept.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	logging.SetBackend(leveledBackend)
	SetLevel(level)
}

// SetLevel sets the minimum level of logged messages.
func SetLevel(l Level) {
	var backendLevel logging.Level

	switch l {
	case Debug:
		backendLevel = logging.DEBUG
	case Info:
		backendLevel = logging.INFO
	case Notice:
		backendLevel = logging.NOTICE
	case Warning:
		backendLevel = logging.WARNING
	default:
		l = Error
		backendLevel = logging.ERROR
	}

	level = l
	leveledBackend.SetLevel(backendLevel, "")
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	return level
}

// ParseLevel looks up a level by its case insensitive name.
func ParseLevel(name string) (Level, bool) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

func init() {
	SetSink(os.Stderr)
	if l, ok := ParseLevel(os.Getenv("ATON_LOG_LEVEL")); ok {
		SetLevel(l)
	}
}
