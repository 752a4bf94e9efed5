// internal/analytics/window.go
package analytics

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// AllowedWindowDays is the reporting window allow-list.
var AllowedWindowDays = []int{1, 7, 30, 90}

// Window is the resolved reporting window. All cutoffs are UTC; day
// bucketing everywhere in this package is pinned to UTC as well.
type Window struct {
	Days      int
	Cutoff    time.Time
	CutoffISO string
}

// ResolveWindow normalizes a raw "days" parameter against the allow-list.
// Invalid, missing or non-finite input falls back to def; the function is
// total and never errors. String input is numerically coerced, so "30"
// resolves to 30.
func ResolveWindow(raw string, def int, now time.Time) Window {
	days := def

	if s := strings.TrimSpace(raw); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			if n := int(f); float64(n) == f && isAllowedWindow(n) {
				days = n
			}
		}
	}

	if !isAllowedWindow(days) {
		days = 7
	}

	cutoff := now.UTC().AddDate(0, 0, -days)
	return Window{
		Days:      days,
		Cutoff:    cutoff,
		CutoffISO: cutoff.Format(time.RFC3339),
	}
}

func isAllowedWindow(days int) bool {
	for _, d := range AllowedWindowDays {
		if d == days {
			return true
		}
	}
	return false
}
