package crash

import (
	"os"
	"strings"
	"time"

	"crashwatch/src/model"
)

// Probe returns a value and whether it could be determined.
type Probe func() (string, bool)

// BreadcrumbSource exposes the last tracked UI interaction.
type BreadcrumbSource interface {
	Last() (string, bool)
}

// ConsoleSource exposes a copy of the recently captured diagnostic lines.
type ConsoleSource interface {
	Recent() []model.LogLine
}

// ContextBuilder snapshots the environment for a crash report. Every source
// is optional; a missing or failing source leaves its field empty.
type ContextBuilder struct {
	Timezone   Probe
	Route      Probe
	BuildInfo  model.BuildDescriptor
	Breadcrumb BreadcrumbSource
	Console    ConsoleSource
	Components *ComponentTraceSlot
}

// Build assembles a CrashContext. Non-zero fields of overrides are applied
// last and win over derived values.
func (b *ContextBuilder) Build(overrides *model.CrashContext) model.CrashContext {
	ctx := model.CrashContext{RecentConsole: []model.LogLine{}}

	if b != nil {
		ctx.Build = b.BuildInfo

		probe(func() { ctx.Timezone = value(b.Timezone) })
		probe(func() { ctx.Route = value(b.Route) })
		probe(func() {
			if b.Breadcrumb != nil {
				if crumb, ok := b.Breadcrumb.Last(); ok {
					ctx.LastUIAction = crumb
				}
			}
		})
		probe(func() {
			if b.Console != nil {
				ctx.RecentConsole = append([]model.LogLine{}, b.Console.Recent()...)
			}
		})
		probe(func() {
			if trace, ok := b.Components.Current(); ok {
				ctx.ComponentStack = trace
			}
		})
	}

	probe(func() { merge(&ctx, overrides) })
	return ctx
}

func probe(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func value(p Probe) string {
	if p == nil {
		return ""
	}
	if v, ok := p(); ok {
		return v
	}
	return ""
}

func merge(ctx *model.CrashContext, o *model.CrashContext) {
	if o == nil {
		return
	}
	if o.Timezone != "" {
		ctx.Timezone = o.Timezone
	}
	if o.Route != "" {
		ctx.Route = o.Route
	}
	if !o.Build.IsZero() {
		ctx.Build = o.Build
	}
	if o.LastUIAction != "" {
		ctx.LastUIAction = o.LastUIAction
	}
	if o.RecentConsole != nil {
		ctx.RecentConsole = append([]model.LogLine{}, o.RecentConsole...)
	}
	if o.ComponentStack != "" {
		ctx.ComponentStack = o.ComponentStack
	}
	if o.UserID != "" {
		ctx.UserID = o.UserID
	}
	if o.Role != "" {
		ctx.Role = o.Role
	}
	if o.BoardID != "" {
		ctx.BoardID = o.BoardID
	}
}

// LocalTimezone resolves the IANA name of the local time zone: TZ first,
// then the /etc/localtime link, then the zone abbreviation.
func LocalTimezone() (string, bool) {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		return tz, true
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name, true
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			return target[i+len("zoneinfo/"):], true
		}
	}
	if abbr, _ := time.Now().Zone(); abbr != "" {
		return abbr, true
	}
	return "", false
}

// NoRoute is the route probe for processes without a navigable page.
func NoRoute() (string, bool) {
	return "", false
}
