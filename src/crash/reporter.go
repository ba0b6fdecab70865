// Package crash builds, persists and publishes crash reports.
//
// Reporter.LogCrash is the single entry point for recording a failure. It is
// safe to call from any failure-handling path, including from inside another
// recover: no step of the pipeline is allowed to panic out of it.
package crash

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"crashwatch/src/console"
	"crashwatch/src/model"
	"crashwatch/src/stacktrace"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

// Store is the durable single-slot crash store.
type Store interface {
	Save(ctx context.Context, report *model.CrashReport) error
	Load(ctx context.Context) (*model.CrashReport, error)
	Clear(ctx context.Context) error
}

type Reporter struct {
	parser  *stacktrace.Parser
	policy  stacktrace.Policy
	context *ContextBuilder
	store   Store
	sink    console.Sink
	timeout time.Duration
	now     func() time.Time

	last atomic.Pointer[model.CrashReport]
}

// NewReporter wires a reporter. store and sink may be nil, in which case
// persistence or emission is skipped.
func NewReporter(builder *ContextBuilder, store Store, sink console.Sink) *Reporter {
	return &Reporter{
		parser:  stacktrace.NewParser(),
		policy:  stacktrace.DefaultPolicy(),
		context: builder,
		store:   store,
		sink:    sink,
		timeout: 2 * time.Second,
		now:     time.Now,
	}
}

func (r *Reporter) WithPolicy(policy stacktrace.Policy) *Reporter {
	r.policy = policy
	return r
}

func (r *Reporter) WithParser(parser *stacktrace.Parser) *Reporter {
	if parser != nil {
		r.parser = parser
	}
	return r
}

func (r *Reporter) WithStoreTimeout(d time.Duration) *Reporter {
	if d > 0 {
		r.timeout = d
	}
	return r
}

func (r *Reporter) WithClock(now func() time.Time) *Reporter {
	if now != nil {
		r.now = now
	}
	return r
}

// Last returns the report published by the most recent LogCrash in this
// process. The durable store, not this value, survives restarts.
func (r *Reporter) Last() *model.CrashReport {
	if r == nil {
		return nil
	}
	return r.last.Load()
}

// LogCrash records errorLike, which may be any value, and returns the
// resulting report. It never panics and never returns nil.
func (r *Reporter) LogCrash(errorLike any, opts ...Option) (report *model.CrashReport) {
	report = &model.CrashReport{
		Name:    defaultErrorName,
		Message: "unknown error",
		Stack:   []model.StackFrame{},
		Culprit: model.Culprit{Reason: model.CulpritNoStack},
		Context: model.CrashContext{RecentConsole: []model.LogLine{}},
	}
	defer func() {
		if rec := recover(); rec != nil {
			stepFailed("report", rec)
		}
	}()

	if r == nil {
		now := time.Now()
		report.ID, report.Timestamp = newID(now), now
		step("normalize", func() { normalizeInto(report, errorLike) })
		return report
	}

	var o Options
	step("options", func() { o = ApplyOptions(opts...) })

	now := time.Now()
	step("clock", func() { now = r.now() })
	report.Timestamp = now
	report.ID = fmt.Sprintf("%d", now.UnixMilli())

	step("normalize", func() { normalizeInto(report, errorLike) })
	step("parse", func() { report.Stack = r.parser.Parse(report.StackRaw) })
	step("culprit", func() { report.Culprit = stacktrace.SelectCulprit(report.Stack, r.policy) })
	step("context", func() { report.Context = r.context.Build(o.ExtraContext) })
	step("id", func() { report.ID = newID(now) })

	report.IsUnhandledRejection = o.IsUnhandledRejection
	if o.NetworkHint != nil {
		hint := *o.NetworkHint
		report.NetworkHint = &hint
	}

	step("persist", func() { r.persist(report) })
	step("publish", func() { r.last.Store(report) })
	step("emit", func() {
		if r.sink != nil {
			r.sink.Write(model.LevelError, "[crash]", report.String())
		}
	})
	return report
}

func normalizeInto(report *model.CrashReport, errorLike any) {
	ke := Normalize(Classify(errorLike))
	report.Name = ke.Name
	report.Message = ke.Message
	report.StackRaw = ke.Stack
}

func (r *Reporter) persist(report *model.CrashReport) {
	if r.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.store.Save(ctx, report); err != nil {
		logger.WithError(err).WithField("crash_id", report.ID).Warn("Failed to persist crash report")
	}
}

// newID derives a report id from its creation time. The random suffix keeps
// ids unique when two reports share a millisecond.
func newID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

func step(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			stepFailed(name, rec)
		}
	}()
	fn()
}

func stepFailed(name string, rec any) {
	defer func() { _ = recover() }()
	logger.WithFields(map[string]interface{}{
		"step":  name,
		"panic": fmt.Sprint(rec),
	}).Error("Crash pipeline step failed")
}
