package breadcrumb

import (
	"sync"
	"time"
)

// Element is the minimal view of a UI element the tracker needs.
type Element struct {
	Tag        string            `json:"tag"`
	ID         string            `json:"id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Text       string            `json:"text,omitempty"`
}

func (e *Element) Attr(name string) string {
	if e == nil || e.Attributes == nil {
		return ""
	}
	return e.Attributes[name]
}

// Event is a UI event delivered to the document root.
type Event struct {
	Type   string
	Target *Element
	Time   time.Time

	stopped bool
}

// StopPropagation prevents bubble-phase listeners from running. Capture
// listeners have already seen the event by then.
func (e *Event) StopPropagation() { e.stopped = true }

type Listener func(ev *Event)

// EventTarget accepts listeners for a given event type, either in the
// capture phase or the bubble phase.
type EventTarget interface {
	AddEventListener(eventType string, fn Listener, capture bool)
}

// Document is an in-process event root. Dispatch runs every capture
// listener for the event type, then the bubble listeners unless the event
// was stopped.
type Document struct {
	mu      sync.RWMutex
	capture map[string][]Listener
	bubble  map[string][]Listener
}

func NewDocument() *Document {
	return &Document{
		capture: make(map[string][]Listener),
		bubble:  make(map[string][]Listener),
	}
}

func (d *Document) AddEventListener(eventType string, fn Listener, capture bool) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if capture {
		d.capture[eventType] = append(d.capture[eventType], fn)
		return
	}
	d.bubble[eventType] = append(d.bubble[eventType], fn)
}

// ListenerCount returns the number of listeners registered for eventType.
func (d *Document) ListenerCount(eventType string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.capture[eventType]) + len(d.bubble[eventType])
}

func (d *Document) Dispatch(ev *Event) {
	if ev == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	d.mu.RLock()
	capture := append([]Listener(nil), d.capture[ev.Type]...)
	bubble := append([]Listener(nil), d.bubble[ev.Type]...)
	d.mu.RUnlock()

	for _, fn := range capture {
		fn(ev)
	}
	for _, fn := range bubble {
		if ev.stopped {
			return
		}
		fn(ev)
	}
}
