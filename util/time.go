package util

import (
	"fmt"
	"time"

	"github.com/icza/gox/timex"
)

// Ago renders a unix timestamp as a coarse relative time like "3 days ago".
func Ago(ts int64) string {

	t := time.Unix(ts, 0)
	now := time.Now()
	if !t.Before(now) {
		return "just now"
	}

	years, months, days, hours, mins, _ := timex.Diff(t, now)

	switch {
	case years > 0:
		return plural(years, "year")
	case months > 0:
		return plural(months, "month")
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case mins > 0:
		return plural(mins, "minute")
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
