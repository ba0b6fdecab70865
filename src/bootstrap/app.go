// Package bootstrap assembles the crash pipeline and installs it once.
package bootstrap

import (
	"fmt"
	"sync"

	"crashwatch/src/breadcrumb"
	"crashwatch/src/buildinfo"
	"crashwatch/src/console"
	"crashwatch/src/crash"
	"crashwatch/src/inspector"
	"crashwatch/src/stacktrace"

	"github.com/sirupsen/logrus"
)

// App holds one instance of every pipeline component.
type App struct {
	Console    *console.Console
	Document   *breadcrumb.Document
	Tracker    *breadcrumb.Tracker
	Trace      *crash.ComponentTraceSlot
	Reporter   *crash.Reporter
	Hooks      *crash.Hooks
	Supervisor *crash.Supervisor
	Boundary   *crash.Boundary
	Inspector  *inspector.Inspector

	once sync.Once
}

// New wires the pipeline on top of store, reading component settings from
// the environment. Nothing is installed yet.
func New(log *logrus.Logger, store crash.Store) (*App, error) {
	policy, err := stacktrace.LoadPolicy(stacktrace.GetConfig())
	if err != nil {
		return nil, fmt.Errorf("load culprit policy: %w", err)
	}

	cons := console.New(log, console.GetConfig().RingCapacity)
	tracker := breadcrumb.NewTracker()
	trace := &crash.ComponentTraceSlot{}

	builder := &crash.ContextBuilder{
		Timezone:   crash.LocalTimezone,
		Route:      crash.NoRoute,
		BuildInfo:  buildinfo.Descriptor(),
		Breadcrumb: tracker,
		Console:    cons,
		Components: trace,
	}
	reporter := crash.NewReporter(builder, store, cons).
		WithPolicy(policy).
		WithStoreTimeout(crash.GetConfig().StoreTimeout)

	return &App{
		Console:    cons,
		Document:   breadcrumb.NewDocument(),
		Tracker:    tracker,
		Trace:      trace,
		Reporter:   reporter,
		Hooks:      crash.NewHooks(reporter),
		Supervisor: crash.NewSupervisor(),
		Boundary:   &crash.Boundary{Reporter: reporter, Trace: trace},
		Inspector:  inspector.New(store),
	}, nil
}

// Install starts output capture, breadcrumb tracking and the global failure
// hooks. Only the first call has an effect.
func (a *App) Install() {
	a.once.Do(func() {
		a.Console.Install()
		a.Tracker.Install(a.Document)
		a.Hooks.Install(a.Supervisor)
	})
}
