package crash

import (
	"context"
	"errors"
	"sync"

	"crashwatch/src/model"
)

// memStore is an in-memory single-slot Store.
type memStore struct {
	mu      sync.Mutex
	slot    *model.CrashReport
	saves   int
	failing bool
}

func (s *memStore) Save(_ context.Context, report *model.CrashReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failing {
		return errors.New("quota exceeded")
	}
	s.slot = report
	return nil
}

func (s *memStore) Load(context.Context) (*model.CrashReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot, nil
}

func (s *memStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slot = nil
	return nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// recordingSink keeps every write.
type recordingSink struct {
	mu     sync.Mutex
	writes [][]any
}

func (s *recordingSink) Write(_ model.Level, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, args)
}

type panickySink struct{}

func (panickySink) Write(model.Level, ...any) { panic("sink exploded") }

type panickyStore struct{ memStore }

func (*panickyStore) Save(context.Context, *model.CrashReport) error { panic("store exploded") }
