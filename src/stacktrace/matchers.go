package stacktrace

import (
	"regexp"
	"strconv"
	"strings"

	"crashwatch/src/model"
)

// Matcher recognises one stack line shape.
type Matcher interface {
	Name() string
	Match(line string) (model.StackFrame, bool)
}

// RegexpMatcher matches a line against a pattern and builds a frame from
// the named groups fn, file, line and col. Any of them may be absent.
type RegexpMatcher struct {
	name string
	re   *regexp.Regexp
}

func NewRegexpMatcher(name, pattern string) *RegexpMatcher {
	return &RegexpMatcher{name: name, re: regexp.MustCompile(pattern)}
}

func (m *RegexpMatcher) Name() string { return m.name }

func (m *RegexpMatcher) Match(line string) (model.StackFrame, bool) {
	groups := m.re.FindStringSubmatch(line)
	if groups == nil {
		return model.StackFrame{}, false
	}

	frame := model.StackFrame{Raw: line}
	for i, name := range m.re.SubexpNames() {
		if i == 0 || groups[i] == "" {
			continue
		}
		value := groups[i]
		switch name {
		case "fn":
			frame.FunctionName = strings.TrimSpace(value)
		case "file":
			frame.FileName = value
		case "line":
			frame.LineNumber = atoi(value)
		case "col":
			frame.ColumnNumber = atoi(value)
		}
	}
	return frame, true
}

func atoi(s string) *int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// Built-in shapes, in the order they are tried.
var (
	// at handleSave (/app/src/Board.tsx:42:10)
	V8Named = NewRegexpMatcher("v8-named",
		`^\s*at\s+(?P<fn>.+?)\s+\((?P<file>.+?):(?P<line>\d+)(?::(?P<col>\d+))?\)\s*$`)

	// at /app/src/Board.tsx:42:10
	V8Anonymous = NewRegexpMatcher("v8-anonymous",
		`^\s*at\s+(?P<file>.+?):(?P<line>\d+)(?::(?P<col>\d+))?\s*$`)

	// handleSave@http://localhost:5173/src/Board.tsx:42:10
	Gecko = NewRegexpMatcher("gecko",
		`^\s*(?P<fn>[^@\s]*)@(?P<file>.+?):(?P<line>\d+):(?P<col>\d+)\s*$`)

	// 	/home/dev/board/src/crash/reporter.go:88 +0x1d
	GoLocation = NewRegexpMatcher("go-location",
		`^\s*(?P<file>\S+\.go):(?P<line>\d+)(?:\s+\+0x[0-9a-fA-F]+)?\s*$`)

	// crashwatch/src/crash.(*Reporter).LogCrash(0xc000123, {0x0, 0x0})
	GoFunction = NewRegexpMatcher("go-function",
		`^(?P<fn>(?:[\w.\-/~]|\(\*?[\w.\-\[\]]+\)|\[[^\]]*\])+)\(.*\)\s*$`)

	// created by crashwatch/src/crash.(*Supervisor).Go in goroutine 1
	GoCreatedBy = NewRegexpMatcher("go-created-by",
		`^created by\s+(?P<fn>\S+)(?:\s+in goroutine \d+)?\s*$`)
)

// DefaultMatchers returns the built-in matchers in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{V8Named, V8Anonymous, Gecko, GoLocation, GoFunction, GoCreatedBy}
}
