package logger

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the caller's request id, echoed back in responses.
const RequestIDHeader = "X-Request-ID"

type Logger struct {
	*logrus.Entry
}

// Options selects formatter, level and sink. The zero value logs coloured
// text at info level to stdout.
type Options struct {
	Environment string
	Level       string
	Output      io.Writer
}

// FromEnv reads ENVIRONMENT and LOG_LEVEL.
func FromEnv() Options {
	return Options{
		Environment: os.Getenv("ENVIRONMENT"),
		Level:       os.Getenv("LOG_LEVEL"),
	}
}

func New(opts Options) *Logger {
	base := logrus.New()

	// local = pretty console, anything else = JSON
	if opts.Environment == "" || opts.Environment == "local" {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			ForceColors:     opts.Output == nil,
		})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	}

	if opts.Output != nil {
		base.SetOutput(opts.Output)
	} else {
		base.SetOutput(os.Stdout)
	}

	switch opts.Level {
	case "debug":
		base.SetLevel(logrus.DebugLevel)
	case "warn":
		base.SetLevel(logrus.WarnLevel)
	case "error":
		base.SetLevel(logrus.ErrorLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Entry: logrus.NewEntry(base)}
}

// Component tags every entry of a subsystem.
func (l *Logger) Component(name string) *Logger {
	return &Logger{Entry: l.Entry.WithField("component", name)}
}

// RequestID returns the id sent by the caller or a fresh one.
func RequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return uuid.New().String()
}

// WithRequest attaches request metadata and returns an entry
func (l *Logger) WithRequest(r *http.Request) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"req_id":     RequestID(r),
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote_ip":  r.RemoteAddr,
		"user_agent": r.UserAgent(),
	})
}

// WithError standardizes error logging
func (l *Logger) WithError(err error) *logrus.Entry {
	if err == nil {
		return l.Entry
	}
	return l.Entry.WithField("error", err.Error())
}
