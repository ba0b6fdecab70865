package crash

import (
	"sync"
)

// ErrorEvent describes an uncaught synchronous failure. Err is the carried
// error when there is one; otherwise Message describes the failure.
type ErrorEvent struct {
	Err     error
	Message string
	Stack   string
}

// RejectionEvent describes an asynchronous failure nobody handled. Reason
// may be any value.
type RejectionEvent struct {
	Reason any
}

// Runtime is the global event source the failure hooks attach to.
type Runtime interface {
	OnError(fn func(ErrorEvent))
	OnUnhandledRejection(fn func(RejectionEvent))
}

// Hooks forward otherwise-unhandled failures to the reporter.
type Hooks struct {
	reporter *Reporter
	once     sync.Once
}

func NewHooks(reporter *Reporter) *Hooks {
	return &Hooks{reporter: reporter}
}

// Install registers the error and rejection listeners on rt. Later calls
// are no-ops.
func (h *Hooks) Install(rt Runtime) {
	if rt == nil {
		return
	}
	h.once.Do(func() {
		rt.OnError(h.handleError)
		rt.OnUnhandledRejection(h.handleRejection)
	})
}

func (h *Hooks) handleError(ev ErrorEvent) {
	var ke KnownError
	if ev.Err != nil {
		ke = Normalize(Classify(ev.Err))
	} else {
		ke = KnownError{Name: defaultErrorName, Message: ev.Message}
		if ke.Message == "" {
			ke.Message = "unknown error"
		}
	}
	if ke.Stack == "" {
		ke.Stack = ev.Stack
	}
	h.reporter.LogCrash(ke)
}

func (h *Hooks) handleRejection(ev RejectionEvent) {
	h.reporter.LogCrash(ev.Reason, Unhandled())
}
