// internal/analytics/active.go
package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"maw-backend/internal/models"
)

// Stickiness is DAU/MAU, nil exactly when MAU is zero.
func Stickiness(dau, mau int) *float64 {
	if mau == 0 {
		return nil
	}
	v := float64(dau) / float64(mau)
	return &v
}

// RollingMAUTrend computes, for each of the trailing `days` calendar days
// ending at `end`, the distinct active users over that day's trailing
// `window` days. It slides a refcount of user ids forward instead of
// recomputing the union per day, so the cost is O(days * avg daily active)
// rather than O(days * users).
func RollingMAUTrend(d *DailyActivity, end time.Time, days, window int) []models.DayCount {
	if days <= 0 || window <= 0 {
		return nil
	}

	endDay := end.UTC().Truncate(24 * time.Hour)
	refs := make(map[string]int)
	alive := 0

	addDay := func(day string) {
		for u := range d.Users[day] {
			if refs[u] == 0 {
				alive++
			}
			refs[u]++
		}
	}
	removeDay := func(day string) {
		for u := range d.Users[day] {
			refs[u]--
			if refs[u] == 0 {
				alive--
			}
		}
	}

	start := endDay.AddDate(0, 0, -(days - 1))

	// Seed the window with the days preceding the first reported day.
	for off := -(window - 1); off < 0; off++ {
		addDay(DayKey(start.AddDate(0, 0, off)))
	}

	trend := make([]models.DayCount, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		addDay(DayKey(day))
		if i > 0 {
			// The day falling out of the trailing window. i==0 has no
			// predecessor in the refcounts: the seed starts one day later.
			removeDay(DayKey(day.AddDate(0, 0, -window)))
		}
		trend = append(trend, models.DayCount{Day: DayKey(day), Count: alive})
	}
	return trend
}

// BruteForceRollingMAU is the reference implementation: the plain union of
// the trailing `window` days' active sets for one day. Used to cross-check
// the sliding-window variant.
func BruteForceRollingMAU(d *DailyActivity, day time.Time, window int) int {
	seen := make(map[string]struct{})
	base := day.UTC().Truncate(24 * time.Hour)
	for off := 0; off < window; off++ {
		for u := range d.Users[DayKey(base.AddDate(0, 0, -off))] {
			seen[u] = struct{}{}
		}
	}
	return len(seen)
}

// ReturningTrend counts, per day over the trailing `days`, the users active
// that day who were already active on an earlier indexed day.
func ReturningTrend(d *DailyActivity, end time.Time, days int) []models.DayCount {
	if days <= 0 {
		return nil
	}

	indexedDays := lo.Keys(d.Users)
	sort.Strings(indexedDays)

	endDay := end.UTC().Truncate(24 * time.Hour)
	start := DayKey(endDay.AddDate(0, 0, -(days - 1)))

	seen := make(map[string]struct{})
	trend := make([]models.DayCount, 0, days)

	for _, day := range indexedDays {
		if day >= start {
			returning := 0
			for u := range d.Users[day] {
				if _, ok := seen[u]; ok {
					returning++
				}
			}
			trend = append(trend, models.DayCount{Day: day, Count: returning})
		}
		for u := range d.Users[day] {
			seen[u] = struct{}{}
		}
	}
	return trend
}

// AdoptionSeries computes per-day adoption rate (tool uniques / day actives)
// for the top `topN` tools by distinct users across the index.
func AdoptionSeries(d *DailyActivity, end time.Time, days, topN int) []models.ToolAdoptionSeries {
	if days <= 0 || topN <= 0 {
		return nil
	}

	type toolUniques struct {
		tool    string
		uniques int
	}
	totals := make([]toolUniques, 0, len(d.ToolUsers))
	for tool, byDay := range d.ToolUsers {
		seen := make(map[string]struct{})
		for _, users := range byDay {
			for u := range users {
				seen[u] = struct{}{}
			}
		}
		totals = append(totals, toolUniques{tool: tool, uniques: len(seen)})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].uniques != totals[j].uniques {
			return totals[i].uniques > totals[j].uniques
		}
		return totals[i].tool < totals[j].tool
	})
	if len(totals) > topN {
		totals = totals[:topN]
	}

	endDay := end.UTC().Truncate(24 * time.Hour)
	series := make([]models.ToolAdoptionSeries, 0, len(totals))
	for _, t := range totals {
		points := make([]models.AdoptionPoint, 0, days)
		for i := days - 1; i >= 0; i-- {
			day := DayKey(endDay.AddDate(0, 0, -i))
			active := len(d.Users[day])
			users := len(d.ToolUsers[t.tool][day])
			rate := 0.0
			if active > 0 {
				rate = float64(users) / float64(active)
			}
			points = append(points, models.AdoptionPoint{Day: day, Users: users, Rate: rate})
		}
		series = append(series, models.ToolAdoptionSeries{Tool: t.tool, Points: points})
	}
	return series
}
