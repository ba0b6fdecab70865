package model

import (
	"fmt"
	"strings"
	"time"
)

// BuildDescriptor identifies the running build. Fixed at link time.
type BuildDescriptor struct {
	Commit  string `json:"commit"`
	BuiltAt string `json:"builtAt"`
	Version string `json:"version,omitempty"`
}

// IsZero reports whether no build field is set.
func (b BuildDescriptor) IsZero() bool {
	return b.Commit == "" && b.BuiltAt == "" && b.Version == ""
}

// CrashContext is the environment snapshot attached to a crash report.
// RecentConsole is a copy of the capture buffer taken when the report was built.
type CrashContext struct {
	Timezone       string          `json:"timezone,omitempty"`
	Route          string          `json:"route,omitempty"`
	Build          BuildDescriptor `json:"build"`
	LastUIAction   string          `json:"lastUiAction,omitempty"`
	RecentConsole  []LogLine       `json:"recentConsole"`
	ComponentStack string          `json:"componentStack,omitempty"`

	// Identifiers the caller knows about and the crash pipeline does not.
	UserID  string `json:"userId,omitempty"`
	Role    string `json:"role,omitempty"`
	BoardID string `json:"boardId,omitempty"`
}

// NetworkHint correlates a failure with a specific HTTP request.
type NetworkHint struct {
	URL    string `json:"url,omitempty"`
	Status int    `json:"status,omitempty"`
	Method string `json:"method,omitempty"`
}

// CrashReport is the persisted record of a single failure. It is built once
// per reported failure and must not be mutated afterwards.
type CrashReport struct {
	ID                   string       `json:"id"`
	Timestamp            time.Time    `json:"timestamp"`
	Name                 string       `json:"name"`
	Message              string       `json:"message"`
	StackRaw             string       `json:"stackRaw,omitempty"`
	Stack                []StackFrame `json:"stack"`
	Culprit              Culprit      `json:"culprit"`
	IsUnhandledRejection bool         `json:"isUnhandledRejection,omitempty"`
	NetworkHint          *NetworkHint `json:"networkHint,omitempty"`
	Context              CrashContext `json:"context"`
}

// String returns a one-line summary suitable for log output.
func (r *CrashReport) String() string {
	if r == nil {
		return "<nil crash report>"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s (id=%s, culprit=%s", r.Name, r.Message, r.ID, r.Culprit.Reason)
	if f := r.Culprit.Frame; f != nil && f.FileName != "" {
		b.WriteString(" ")
		b.WriteString(f.FileName)
		if f.LineNumber != nil {
			fmt.Fprintf(&b, ":%d", *f.LineNumber)
		}
	}
	if r.IsUnhandledRejection {
		b.WriteString(", unhandled rejection")
	}
	b.WriteString(")")
	return b.String()
}
