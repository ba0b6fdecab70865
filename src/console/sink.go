package console

import (
	"crashwatch/src/model"

	"github.com/sirupsen/logrus"
)

// Sink receives diagnostic output at one of the four capture levels.
type Sink interface {
	Write(level model.Level, args ...any)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(level model.Level, args ...any)

func (f SinkFunc) Write(level model.Level, args ...any) {
	f(level, args...)
}

// sinkField tags entries written through LogrusSink so the logrus hook does
// not capture them a second time.
const sinkField = "sink"

// LogrusSink is the plain diagnostic channel: it forwards to a logrus logger
// without capturing anything.
type LogrusSink struct {
	Logger *logrus.Logger
}

func (s LogrusSink) Write(level model.Level, args ...any) {
	l := s.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}

	entry := l.WithField(sinkField, "console")
	switch level {
	case model.LevelError:
		entry.Error(args...)
	case model.LevelWarn:
		entry.Warn(args...)
	case model.LevelInfo:
		entry.Info(args...)
	default:
		entry.Print(args...)
	}
}
