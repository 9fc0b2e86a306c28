// Package logger is the process-wide leveled log. Lines go to syslog when it is
// reachable (stderr otherwise) and, with a log folder set, also to quillpress.log.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"
)

const (
	module   = "quillpress"
	fileName = module + ".log"

	plainFormat = `%{level:.4s} %{message}`
	timedFormat = `%{time:2006-01-02 15:04:05.000} %{level:.4s} %{message}`
)

var (
	// go-logging writes to stderr until Init replaces the backend.
	logger = logging.MustGetLogger(module)
	file   io.Closer
)

// ParseLevel maps a configured level name onto a go-logging level.
// "warn" and "warning" are both accepted.
func ParseLevel(name string) (logging.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return logging.DEBUG, nil
	case "info":
		return logging.INFO, nil
	case "notice":
		return logging.NOTICE, nil
	case "warn", "warning":
		return logging.WARNING, nil
	case "error":
		return logging.ERROR, nil
	default:
		return logging.ERROR, fmt.Errorf("unknown log level %q", name)
	}
}

// Init routes the log to the console at level and, when dir is set, to a file
// under dir that keeps every level. A file that cannot be opened is an error;
// the console sink is kept either way.
func Init(level logging.Level, dir string) error {
	sinks := []logging.Backend{leveled(console(), level)}

	var err error
	if dir != "" {
		var f *os.File
		if f, err = openFile(dir); err == nil {
			Close()
			file = f
			sink := logging.NewBackendFormatter(logging.NewLogBackend(f, "", 0), logging.MustStringFormatter(timedFormat))
			sinks = append(sinks, leveled(sink, logging.DEBUG))
		}
	}

	logger.SetBackend(logging.MultiLogger(sinks...))
	return err
}

// InitWriter sends everything at level to w. Used by tests to capture output.
func InitWriter(w io.Writer, level logging.Level) {
	sink := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logging.MustStringFormatter(plainFormat))
	logger.SetBackend(leveled(sink, level))
}

func leveled(b logging.Backend, level logging.Level) logging.LeveledBackend {
	l := logging.AddModuleLevel(b)
	l.SetLevel(level, module)
	return l
}

// console prefers syslog, which stamps its own time.
func console() logging.Backend {
	if sys, err := logging.NewSyslogBackend(module); err == nil {
		return logging.NewBackendFormatter(sys, logging.MustStringFormatter(plainFormat))
	}
	return logging.NewBackendFormatter(logging.NewLogBackend(os.Stderr, "", 0), logging.MustStringFormatter(timedFormat))
}

func openFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log folder: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// Close releases the log file, if one is open.
func Close() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
}

func Debug(args ...any)                 { logger.Debug(args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }

func Info(args ...any)                 { logger.Info(args...) }
func Infof(format string, args ...any) { logger.Infof(format, args...) }

func Notice(args ...any)                 { logger.Notice(args...) }
func Noticef(format string, args ...any) { logger.Noticef(format, args...) }

func Warning(args ...any)                 { logger.Warning(args...) }
func Warningf(format string, args ...any) { logger.Warningf(format, args...) }

func Error(args ...any)                 { logger.Error(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
