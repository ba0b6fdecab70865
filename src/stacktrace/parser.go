// Package stacktrace turns raw stack text into structured frames and picks
// the frame most likely responsible for a failure.
package stacktrace

import (
	"regexp"
	"strings"
	"sync"

	"crashwatch/src/model"
)

var lineBreak = regexp.MustCompile(`\r?\n|\r`)

// Parser splits stack text into frames using an ordered list of matchers.
// It holds no per-parse state.
type Parser struct {
	mu       sync.RWMutex
	matchers []Matcher
}

// NewParser builds a parser trying matchers in order. With no arguments the
// built-in shapes are used.
func NewParser(matchers ...Matcher) *Parser {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Parser{matchers: append([]Matcher(nil), matchers...)}
}

// Register appends a matcher, tried after the existing ones.
func (p *Parser) Register(m Matcher) {
	if m == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matchers = append(p.matchers, m)
}

// Parse returns one frame per non-empty line, in order. Lines matching no
// shape yield a frame with only Raw set.
func (p *Parser) Parse(raw string) []model.StackFrame {
	frames := []model.StackFrame{}
	if strings.TrimSpace(raw) == "" {
		return frames
	}

	p.mu.RLock()
	matchers := p.matchers
	p.mu.RUnlock()

	for _, line := range lineBreak.Split(raw, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		frames = append(frames, parseLine(matchers, line))
	}
	return frames
}

func parseLine(matchers []Matcher, line string) model.StackFrame {
	for _, m := range matchers {
		if frame, ok := m.Match(line); ok {
			return frame
		}
	}
	return model.StackFrame{Raw: line}
}

var defaultParser = NewParser()

// Parse parses raw with the built-in matchers.
func Parse(raw string) []model.StackFrame {
	return defaultParser.Parse(raw)
}
