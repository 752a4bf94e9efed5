// internal/analytics/metrics.go
package analytics

import (
	"time"

	"github.com/montanaflynn/stats"

	"maw-backend/internal/models"
)

// CoreTools is the allow-list of tools whose first use counts as activation.
var CoreTools = map[string]struct{}{
	"effect_engine": {},
	"patter_writer": {},
	"show_builder":  {},
}

// ActivationWindow is how long after signup a first core-tool use still
// counts as activation. The boundary is inclusive.
const ActivationWindow = 24 * time.Hour

// FirstCoreToolUse walks an event list (any order) and records the earliest
// core-tool event time per user.
func FirstCoreToolUse(events []models.AIUsageEvent) map[string]time.Time {
	first := make(map[string]time.Time)
	for i := range events {
		ev := &events[i]
		if ev.UserID == "" {
			continue
		}
		if _, ok := CoreTools[ev.Tool]; !ok {
			continue
		}
		if t, ok := first[ev.UserID]; !ok || ev.CreatedAt.Before(t) {
			first[ev.UserID] = ev.CreatedAt
		}
	}
	return first
}

// ActivationStats is the activation/TTFV result for one new-user batch.
type ActivationStats struct {
	NewUsers        int
	Activated       int
	ActivationRate  *float64
	TTFVMedianHours *float64
}

// ComputeActivation marks each new user activated when their first
// core-tool event lands within ActivationWindow of their creation time,
// boundary inclusive. TTFV samples are signup-to-first-core deltas in
// hours; negative deltas are invalid and discarded.
func ComputeActivation(newUsers []models.User, firstCore map[string]time.Time) ActivationStats {
	out := ActivationStats{NewUsers: len(newUsers)}

	var ttfvHours []float64
	for i := range newUsers {
		u := &newUsers[i]
		first, ok := firstCore[u.UserID]
		if !ok {
			continue
		}
		delta := first.Sub(u.CreatedAt)
		if delta < 0 {
			continue
		}
		ttfvHours = append(ttfvHours, delta.Hours())
		if delta <= ActivationWindow {
			out.Activated++
		}
	}

	if out.NewUsers > 0 {
		rate := float64(out.Activated) / float64(out.NewUsers)
		out.ActivationRate = &rate
	}
	if len(ttfvHours) > 0 {
		if median, err := stats.Median(ttfvHours); err == nil {
			out.TTFVMedianHours = &median
		}
	}
	return out
}

// RetentionWindow is how long after their own signup a cohort member has to
// produce an event to count as retained.
const RetentionWindow = 7 * 24 * time.Hour

// ComputeWeek1Retention evaluates a cohort (users created 7-14 days ago)
// against their own per-user event times: retained means at least one event
// within RetentionWindow of that user's creation. The result is also split
// by the founding-member flag.
func ComputeWeek1Retention(cohort []models.User, eventTimes map[string][]time.Time) models.RetentionSection {
	section := models.RetentionSection{CohortSize: len(cohort)}

	for i := range cohort {
		u := &cohort[i]
		retained := false
		for _, t := range eventTimes[u.UserID] {
			d := t.Sub(u.CreatedAt)
			if d >= 0 && d <= RetentionWindow {
				retained = true
				break
			}
		}

		split := &section.NonFounding
		if u.FoundingMember {
			split = &section.Founding
		}
		split.CohortSize++
		if retained {
			section.Retained++
			split.Retained++
		}
	}

	section.Rate = ratio(section.Retained, section.CohortSize)
	section.Founding.Rate = ratio(section.Founding.Retained, section.Founding.CohortSize)
	section.NonFounding.Rate = ratio(section.NonFounding.Retained, section.NonFounding.CohortSize)
	return section
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := float64(num) / float64(den)
	return &v
}
