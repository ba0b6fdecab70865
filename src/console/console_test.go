package console

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"crashwatch/src/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return l
}

type panickyJSON struct{}

func (panickyJSON) MarshalJSON() ([]byte, error) { panic("marshal exploded") }

type failingJSON struct{ Name string }

func (failingJSON) MarshalJSON() ([]byte, error) { return nil, errors.New("cannot marshal") }

func TestConsole_NotInstalledCapturesNothing(t *testing.T) {
	var out bytes.Buffer
	c := New(newTestLogger(&out), 10)

	c.Info("hello")

	assert.False(t, c.Installed())
	assert.Empty(t, c.Recent())
	assert.Contains(t, out.String(), "hello")
}

func TestConsole_CapturesAllLevelsAndPassesThrough(t *testing.T) {
	var out bytes.Buffer
	c := New(newTestLogger(&out), 10)
	c.Install()

	c.Log("plain")
	c.Info("info", 42)
	c.Warn("careful", map[string]int{"n": 1})
	c.Error("boom", errors.New("bad thing"))

	lines := c.Recent()
	require.Len(t, lines, 4)

	assert.Equal(t, model.LevelLog, lines[0].Level)
	assert.Equal(t, "plain", lines[0].Text)
	assert.Equal(t, model.LevelInfo, lines[1].Level)
	assert.Equal(t, "info 42", lines[1].Text)
	assert.Equal(t, model.LevelWarn, lines[2].Level)
	assert.Equal(t, `careful {"n":1}`, lines[2].Text)
	assert.Equal(t, model.LevelError, lines[3].Level)
	assert.Equal(t, "boom bad thing", lines[3].Text)
	for _, l := range lines {
		assert.False(t, l.Timestamp.IsZero())
	}

	logged := out.String()
	assert.Contains(t, logged, "plain")
	assert.Contains(t, logged, "level=warning")
	assert.Contains(t, logged, "level=error")
}

func TestConsole_InstallIsIdempotent(t *testing.T) {
	c := New(newTestLogger(io.Discard), 10)
	c.Install()
	c.Install()

	c.Warn("once")

	require.Len(t, c.Recent(), 1)
	require.Len(t, c.logger.Hooks[logrus.WarnLevel], 1)
}

func TestConsole_SerializationFailuresAreContained(t *testing.T) {
	c := New(newTestLogger(io.Discard), 10)
	c.Install()

	require.NotPanics(t, func() {
		c.Error("a", panickyJSON{}, failingJSON{Name: "x"}, make(chan int), "z")
	})

	lines := c.Recent()
	require.Len(t, lines, 1)
	text := lines[0].Text
	assert.True(t, strings.HasPrefix(text, "a "), text)
	assert.True(t, strings.HasSuffix(text, " z"), text)
	assert.Contains(t, text, "{x}")
}

func TestConsole_150LinesKeepsLast100(t *testing.T) {
	c := New(newTestLogger(io.Discard), DefaultCapacity)
	c.Install()

	for i := 0; i < 150; i++ {
		c.Log(fmt.Sprintf("line-%d", i))
	}

	lines := c.Recent()
	require.Len(t, lines, 100)
	for i, l := range lines {
		require.Equal(t, fmt.Sprintf("line-%d", i+50), l.Text)
	}
}

func TestHook_CapturesDirectLogrusOutput(t *testing.T) {
	logger := newTestLogger(io.Discard)
	c := New(logger, 10)
	c.Install()

	logger.WithField("board", 7).WithError(errors.New("db down")).Error("failed to load board")
	logger.Debug("debug detail")

	lines := c.Recent()
	require.Len(t, lines, 2)
	assert.Equal(t, model.LevelError, lines[0].Level)
	assert.Equal(t, "failed to load board board=7 error=db down", lines[0].Text)
	assert.Equal(t, model.LevelLog, lines[1].Level)
}

func TestHook_SkipsEntriesFromConsoleSink(t *testing.T) {
	c := New(newTestLogger(io.Discard), 10)
	c.Install()

	c.Info("only once")

	require.Len(t, c.Recent(), 1)
}

func TestInterceptor_PassThroughPanicsStillCapture(t *testing.T) {
	buf := NewRingBuffer[model.LogLine](5)
	next := SinkFunc(func(model.Level, ...any) { panic("downstream") })
	i := NewInterceptor(next, buf)

	require.Panics(t, func() { i.Write(model.LevelInfo, "before panic") })
	require.Len(t, buf.Snapshot(), 1)
}

func TestFormatArgs(t *testing.T) {
	var nilErr *customErr
	tests := []struct {
		name string
		args []any
		want string
	}{
		{"strings verbatim", []any{"a", "b"}, "a b"},
		{"nil", []any{nil}, "null"},
		{"struct as json", []any{struct {
			ID int `json:"id"`
		}{3}}, `{"id":3}`},
		{"nil error pointer falls back", []any{nilErr}, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatArgs(tt.args))
		})
	}
}

type customErr struct{ msg string }

func (e *customErr) Error() string { return e.msg }
