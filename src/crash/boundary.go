package crash

import (
	"runtime/debug"
	"strings"
	"sync"

	"crashwatch/src/model"
)

// ComponentTraceSlot holds the description of the most recently failed
// component hierarchy. The context builder reads it.
type ComponentTraceSlot struct {
	mu    sync.RWMutex
	trace string
}

func (s *ComponentTraceSlot) Record(trace string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.trace = trace
	s.mu.Unlock()
}

func (s *ComponentTraceSlot) Current() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trace, s.trace != ""
}

// Reset clears the slot.
func (s *ComponentTraceSlot) Reset() {
	s.Record("")
}

// ComponentStack formats a component path, outermost first, as an
// innermost-first trace:
//
//	ComponentStack("App", "Board", "Column") == "\n    at Column\n    at Board\n    at App"
func ComponentStack(path ...string) string {
	var b strings.Builder
	for i := len(path) - 1; i >= 0; i-- {
		name := strings.TrimSpace(path[i])
		if name == "" {
			continue
		}
		b.WriteString("\n    at ")
		b.WriteString(name)
	}
	return b.String()
}

// Boundary catches failures raised while rendering or handling one
// component, records the failing hierarchy and reports it.
type Boundary struct {
	Reporter *Reporter
	Trace    *ComponentTraceSlot

	// Rethrow, when set, selects recovered values that keep unwinding
	// instead of being reported.
	Rethrow func(recovered any) bool
}

// Guard runs fn. If fn panics, the panic is recovered, path is recorded in
// the trace slot and the failure is reported synchronously. The report is
// returned; it is nil when fn completed normally.
func (b *Boundary) Guard(path []string, fn func(), opts ...Option) (report *model.CrashReport) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if b.Rethrow != nil && b.Rethrow(r) {
			panic(r)
		}
		stack := debug.Stack()
		b.Trace.Record(ComponentStack(path...))
		report = b.Reporter.LogCrash(FromPanic(r, stack), opts...)
	}()

	fn()
	return nil
}
