// Package logging provides the structured logger used across the sync
// pipeline. Components depend on the small Logger interface; the default
// implementation is backed by logrus.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger defines the structured logging interface used by pipeline components.
// Fields are passed as alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

func (NoOpLogger) Debug(msg string, fields ...interface{})            {}
func (NoOpLogger) Info(msg string, fields ...interface{})             {}
func (NoOpLogger) Warn(msg string, fields ...interface{})             {}
func (NoOpLogger) Error(msg string, err error, fields ...interface{}) {}

// LogrusLogger adapts a logrus entry to Logger.
type LogrusLogger struct {
	entry *logrus.Entry
}

// New creates a logrus-backed Logger writing to w.
func New(w io.Writer, level, format string) (*LogrusLogger, error) {
	l := logrus.New()
	l.SetOutput(w)
	setFormat(l, format)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)

	return &LogrusLogger{entry: logrus.NewEntry(l)}, nil
}

func setFormat(l *logrus.Logger, format string) {
	switch format {
	case "json":
		l.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "logLevel",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	default:
		l.Formatter = &logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		}
	}
}

func (l *LogrusLogger) Debug(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, err error, fields ...interface{}) {
	e := l.entry.WithFields(toFields(fields))
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}

// toFields turns alternating key/value pairs into logrus fields. A trailing
// key without a value is recorded under "extra".
func toFields(kv []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			fields["extra"] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	return fields
}
