package shutdown

import (
	"fmt"
	"strings"
	"time"
)

// FormatDurationWords renders a duration as full words with seconds
// resolution, e.g. "1 hour 30 minutes 10 seconds". Zero components are
// omitted; a zero or negative duration renders as "0 seconds".
func FormatDurationWords(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return "0 seconds"
	}

	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	var parts []string
	add := func(n int64, unit string) {
		if n == 0 {
			return
		}
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", unit))
			return
		}
		parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
	}
	add(days, "day")
	add(hours, "hour")
	add(minutes, "minute")
	add(seconds, "second")

	return strings.Join(parts, " ")
}
