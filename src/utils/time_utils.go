package utils

import (
	"time"
)

// isoLayout matches the millisecond UTC form used in crash reports and
// breadcrumbs, e.g. 2025-03-01T12:00:00.000Z.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ISOTimestamp formats t in UTC with millisecond precision.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
