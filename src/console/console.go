// Package console captures recent diagnostic output so it can be attached to
// crash reports.
//
// A Console owns the process-wide capture buffer. Until Install is called it
// behaves like its underlying sink; afterwards every write (and every entry
// logged straight through the logrus logger) is also recorded into the ring
// buffer. Install may be called any number of times.
package console

import (
	"sync"

	"crashwatch/src/model"

	"github.com/sirupsen/logrus"
)

type Console struct {
	mu     sync.RWMutex
	sink   Sink
	buf    *RingBuffer[model.LogLine]
	logger *logrus.Logger

	once      sync.Once
	installed bool
}

// New creates a Console writing to logger (the standard logger when nil)
// and retaining up to capacity lines once installed.
func New(logger *logrus.Logger, capacity int) *Console {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Console{
		sink:   LogrusSink{Logger: logger},
		buf:    NewRingBuffer[model.LogLine](capacity),
		logger: logger,
	}
}

// Install starts capturing. Only the first call has an effect.
func (c *Console) Install() {
	c.once.Do(func() {
		c.mu.Lock()
		c.sink = NewInterceptor(c.sink, c.buf)
		c.installed = true
		c.mu.Unlock()

		c.logger.AddHook(NewHook(c.buf))
	})
}

func (c *Console) Installed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.installed
}

func (c *Console) Write(level model.Level, args ...any) {
	c.mu.RLock()
	s := c.sink
	c.mu.RUnlock()

	s.Write(level, args...)
}

func (c *Console) Log(args ...any)   { c.Write(model.LevelLog, args...) }
func (c *Console) Info(args ...any)  { c.Write(model.LevelInfo, args...) }
func (c *Console) Warn(args ...any)  { c.Write(model.LevelWarn, args...) }
func (c *Console) Error(args ...any) { c.Write(model.LevelError, args...) }

// Recent returns a copy of the captured lines, oldest first.
func (c *Console) Recent() []model.LogLine {
	return c.buf.Snapshot()
}

// Buffer exposes the underlying ring buffer.
func (c *Console) Buffer() *RingBuffer[model.LogLine] {
	return c.buf
}
