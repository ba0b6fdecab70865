package crash

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// Supervisor is the process-level Runtime: it runs work, turns panics into
// ErrorEvents and unobserved errors into RejectionEvents.
type Supervisor struct {
	mu          sync.RWMutex
	onError     []func(ErrorEvent)
	onRejection []func(RejectionEvent)

	wg sync.WaitGroup
}

func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

func (s *Supervisor) OnError(fn func(ErrorEvent)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, fn)
}

func (s *Supervisor) OnUnhandledRejection(fn func(RejectionEvent)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRejection = append(s.onRejection, fn)
}

// Go runs fn in a new goroutine. A panic is dispatched as an ErrorEvent; a
// returned error is dispatched as an unhandled rejection.
func (s *Supervisor) Go(fn func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(fn)
	}()
}

// Run is Go without the goroutine.
func (s *Supervisor) Run(fn func() error) {
	defer s.Recover()
	if err := fn(); err != nil {
		s.Reject(err)
	}
}

// Wait blocks until every goroutine started with Go has returned.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// Recover must be deferred directly. It reports a panic in progress and
// stops it.
func (s *Supervisor) Recover() {
	if r := recover(); r != nil {
		s.Panic(r, debug.Stack())
	}
}

// Panic dispatches a recovered panic value.
func (s *Supervisor) Panic(value any, stack []byte) {
	ke := FromPanic(value, stack)
	s.dispatchError(ErrorEvent{Err: ke, Message: ke.Message, Stack: string(stack)})
}

// Fail dispatches an uncaught failure that carries only a message.
func (s *Supervisor) Fail(format string, args ...any) {
	s.dispatchError(ErrorEvent{Message: fmt.Sprintf(format, args...), Stack: string(debug.Stack())})
}

// Reject dispatches reason as an unhandled rejection.
func (s *Supervisor) Reject(reason any) {
	s.mu.RLock()
	listeners := append(([]func(RejectionEvent))(nil), s.onRejection...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		deliver(func() { fn(RejectionEvent{Reason: reason}) })
	}
}

func (s *Supervisor) dispatchError(ev ErrorEvent) {
	s.mu.RLock()
	listeners := append(([]func(ErrorEvent))(nil), s.onError...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		deliver(func() { fn(ev) })
	}
}

// deliver keeps a misbehaving listener from taking the supervisor down.
func deliver(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
