// Package breadcrumb keeps a single description of the most recent user
// interaction so it can be attached to crash reports.
package breadcrumb

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"crashwatch/src/utils"
)

const (
	KindClick = "click"

	// maxTextLen bounds the visible text appended to a summary, in runes.
	maxTextLen = 60
)

// Tracker holds one breadcrumb slot, overwritten on every tracked
// interaction. Only clicks are tracked.
type Tracker struct {
	mu   sync.RWMutex
	last string

	once sync.Once
	now  func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Install registers one capture-phase click listener on root. Later calls
// are no-ops.
func (t *Tracker) Install(root EventTarget) {
	if root == nil {
		return
	}
	t.once.Do(func() {
		root.AddEventListener("click", t.onClick, true)
	})
}

func (t *Tracker) onClick(ev *Event) {
	defer func() { _ = recover() }()

	at := ev.Time
	if at.IsZero() {
		at = t.now()
	}
	t.record(at, KindClick, Summarize(ev.Target))
}

func (t *Tracker) record(at time.Time, kind, summary string) {
	crumb := fmt.Sprintf("%s %s %s", utils.ISOTimestamp(at), kind, summary)

	t.mu.Lock()
	t.last = crumb
	t.mu.Unlock()
}

// Last returns the current breadcrumb, if any interaction was tracked.
func (t *Tracker) Last() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.last != ""
}

// Summarize describes el by its test id, element id, accessible label or
// tag name, in that order, followed by its visible text when present.
func Summarize(el *Element) string {
	if el == nil {
		return "unknown"
	}

	label := firstNonEmpty(
		el.Attr("data-testid"),
		el.ID,
		el.Attr("aria-label"),
		strings.ToLower(el.Tag),
	)
	if label == "" {
		label = "unknown"
	}

	text := truncate(collapseSpace(el.Text), maxTextLen)
	if text == "" {
		return label
	}
	return label + `: "` + text + `"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
