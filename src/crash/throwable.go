package crash

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"runtime"
	"strings"
)

// Throwable is anything that can be reported: either a KnownError with a
// name, message and optional stack, or an Unknown arbitrary value.
type Throwable interface {
	isThrowable()
}

// KnownError is the normalized form every reported value is reduced to.
type KnownError struct {
	Name    string
	Message string
	Stack   string
}

func (KnownError) isThrowable() {}

func (e KnownError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// Unknown wraps a value of no recognised shape (a string, a number, nil...).
type Unknown struct {
	Value any
}

func (Unknown) isThrowable() {}

const defaultErrorName = "Error"

type namer interface{ Name() string }

type stackCarrier interface{ Stack() string }

// Classify sorts an arbitrary value into a Throwable. It never panics.
func Classify(v any) (t Throwable) {
	defer func() {
		if r := recover(); r != nil {
			t = Unknown{Value: v}
		}
	}()

	switch e := v.(type) {
	case nil:
		return Unknown{}
	case *KnownError:
		if e == nil {
			return Unknown{}
		}
		return *e
	case Throwable:
		return e
	case error:
		return fromError(e)
	case map[string]any:
		if ke, ok := fromFields(func(key string) (string, bool) {
			s, ok := e[key].(string)
			return s, ok
		}); ok {
			return ke
		}
	case map[string]string:
		if ke, ok := fromFields(func(key string) (string, bool) {
			s, ok := e[key]
			return s, ok
		}); ok {
			return ke
		}
	default:
		if ke, ok := fromStruct(v); ok {
			return ke
		}
	}
	return Unknown{Value: v}
}

func fromError(err error) KnownError {
	ke := KnownError{Name: errorName(err), Message: err.Error()}

	var n namer
	if errors.As(err, &n) {
		if name := n.Name(); name != "" {
			ke.Name = name
		}
	}
	var sc stackCarrier
	if errors.As(err, &sc) {
		ke.Stack = sc.Stack()
	}

	// a KnownError wrapped with %w keeps its name and stack
	var known KnownError
	var knownPtr *KnownError
	switch {
	case errors.As(err, &known):
		adoptKnown(&ke, known)
	case errors.As(err, &knownPtr) && knownPtr != nil:
		adoptKnown(&ke, *knownPtr)
	}
	return ke
}

func adoptKnown(ke *KnownError, inner KnownError) {
	if inner.Name != "" {
		ke.Name = inner.Name
	}
	if inner.Stack != "" {
		ke.Stack = inner.Stack
	}
}

// fromFields accepts plain objects that expose name/message/stack keys.
func fromFields(get func(key string) (string, bool)) (KnownError, bool) {
	message, hasMessage := get("message")
	name, hasName := get("name")
	if !hasMessage && !hasName {
		return KnownError{}, false
	}

	ke := KnownError{Name: name, Message: message}
	if ke.Name == "" {
		ke.Name = defaultErrorName
	}
	if stack, ok := get("stack"); ok {
		ke.Stack = stack
	}
	return ke, true
}

// fromStruct reads exported string fields Name, Message and Stack from a
// struct or a pointer to one.
func fromStruct(v any) (KnownError, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return KnownError{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return KnownError{}, false
	}

	return fromFields(func(key string) (string, bool) {
		field, ok := rv.Type().FieldByName(strings.ToUpper(key[:1]) + key[1:])
		if !ok || !field.IsExported() || field.Type.Kind() != reflect.String {
			return "", false
		}
		return rv.FieldByIndex(field.Index).String(), true
	})
}

// errorName names an error after its exported type. Unexported types such
// as errors.errorString or fmt.wrapError are implementation details and get
// the default name.
func errorName(err error) string {
	var re runtime.Error
	if errors.As(err, &re) {
		return "runtime.Error"
	}

	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" || !token.IsExported(t.Name()) {
		return defaultErrorName
	}
	return t.String()
}

// Normalize reduces any Throwable to a KnownError. It never panics.
func Normalize(t Throwable) (ke KnownError) {
	defer func() {
		if r := recover(); r != nil {
			ke = KnownError{Name: defaultErrorName, Message: "unprintable value"}
		}
	}()

	switch v := t.(type) {
	case KnownError:
		if v.Name == "" {
			v.Name = defaultErrorName
		}
		return v
	case Unknown:
		return KnownError{Name: defaultErrorName, Message: stringify(v.Value)}
	default:
		return KnownError{Name: defaultErrorName, Message: stringify(t)}
	}
}

func stringify(v any) string {
	if v == nil {
		return "undefined"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FromPanic converts a recovered panic value into a KnownError carrying the
// stack captured at the recovery point, unless the value already has one.
func FromPanic(r any, stack []byte) KnownError {
	var ke KnownError
	switch v := Classify(r).(type) {
	case KnownError:
		ke = v
	default:
		ke = KnownError{Name: "panic", Message: Normalize(v).Message}
	}
	if ke.Stack == "" {
		ke.Stack = trimToPanic(string(stack))
	}
	return ke
}

// trimToPanic drops the recovery frames (debug.Stack, the deferred recover
// and runtime.panic) so the trace starts at the panicking call. The
// goroutine header is kept.
func trimToPanic(stack string) string {
	lines := strings.Split(stack, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "panic(") {
			continue
		}
		rest := i + 2
		if rest > len(lines) {
			rest = len(lines)
		}
		return strings.Join(append([]string{lines[0]}, lines[rest:]...), "\n")
	}
	return stack
}
