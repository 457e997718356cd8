package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/mysqlstatus/internal/errors"
	"github.com/rs/zerolog"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

var (
	log     = zerolog.Nop()
	logFile *os.File
)

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Options controls where log output goes.
type Options struct {
	// Debug enables debug level and sends output to File.
	Debug bool
	// File is the debug log path, truncated on start.
	File string
	// Interactive discards non-debug output so it cannot corrupt the screen.
	Interactive bool
}

// Init initializes the package logger.
func Init(opts Options) error {
	var out io.Writer = os.Stderr

	switch {
	case opts.Debug && opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), defaultDirPerm); err != nil {
			return errors.New().Wrap(errors.ErrInitLogger, err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, defaultFilePerm)
		if err != nil {
			return errors.New().Wrap(errors.ErrInitLogger, err)
		}
		logFile = f
		out = f
	case opts.Interactive:
		out = io.Discard
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    out != os.Stderr,
		TimeFormat: time.RFC3339,
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	SetLogLevel(WarnLevel)
	if opts.Debug {
		SetLogLevel(DebugLevel)
	}

	return nil
}

// SetOutput replaces the logger output; used by tests.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger()
}

// Close releases the debug log file, if any.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil

	return err
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error together with its code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}
