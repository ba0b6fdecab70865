package console

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// FormatArgs renders each argument on a best-effort basis and joins them with
// a single space. It never panics.
func FormatArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, formatArg(a))
	}
	return strings.Join(parts, " ")
}

// formatArg tries structured serialization first and falls back to plain
// coercion when serialization fails or panics.
func formatArg(a any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = coerce(a)
		}
	}()

	switch v := a.(type) {
	case nil:
		return "null"
	case string:
		return v
	case error:
		return v.Error()
	}

	b, err := json.Marshal(a)
	if err != nil {
		return coerce(a)
	}
	return string(b)
}

func coerce(a any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("%T", a)
		}
	}()
	return fmt.Sprint(a)
}
