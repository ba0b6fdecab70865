package console

import (
	"time"

	"crashwatch/src/model"
)

// Interceptor is a Sink decorator: every write is recorded into the ring
// buffer and then passed to the wrapped sink unchanged.
type Interceptor struct {
	next Sink
	buf  *RingBuffer[model.LogLine]
	now  func() time.Time
}

func NewInterceptor(next Sink, buf *RingBuffer[model.LogLine]) *Interceptor {
	return &Interceptor{next: next, buf: buf, now: time.Now}
}

func (i *Interceptor) Write(level model.Level, args ...any) {
	i.capture(level, args)
	if i.next != nil {
		i.next.Write(level, args...)
	}
}

// capture must never become a new source of crashes.
func (i *Interceptor) capture(level model.Level, args []any) {
	defer func() { _ = recover() }()

	if i.buf == nil {
		return
	}
	i.buf.Push(model.LogLine{
		Timestamp: i.now(),
		Level:     level,
		Text:      FormatArgs(args),
	})
}
