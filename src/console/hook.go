package console

import (
	"sort"
	"strings"

	"crashwatch/src/model"

	"github.com/sirupsen/logrus"
)

// Hook captures entries logged directly through logrus into the ring buffer.
type Hook struct {
	buf *RingBuffer[model.LogLine]
}

func NewHook(buf *RingBuffer[model.LogLine]) *Hook {
	return &Hook{buf: buf}
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire never returns an error; a capture failure is dropped silently.
func (h *Hook) Fire(entry *logrus.Entry) error {
	defer func() { _ = recover() }()

	if h.buf == nil || entry == nil {
		return nil
	}
	// Already captured by the Interceptor on its way to logrus.
	if _, ok := entry.Data[sinkField]; ok {
		return nil
	}

	h.buf.Push(model.LogLine{
		Timestamp: entry.Time,
		Level:     levelOf(entry.Level),
		Text:      entryText(entry),
	})
	return nil
}

func levelOf(l logrus.Level) model.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return model.LevelError
	case logrus.WarnLevel:
		return model.LevelWarn
	case logrus.InfoLevel:
		return model.LevelInfo
	default:
		return model.LevelLog
	}
}

func entryText(entry *logrus.Entry) string {
	if len(entry.Data) == 0 {
		return entry.Message
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(entry.Message)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(formatArg(entry.Data[k]))
	}
	return b.String()
}
