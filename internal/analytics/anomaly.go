// internal/analytics/anomaly.go
package analytics

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"maw-backend/internal/models"
)

const (
	// globalAnomalyFactor flags today's total spend above this multiple of
	// the trailing 7-day mean.
	globalAnomalyFactor = 2.5
	// toolAnomalyFactor is the per-tool threshold.
	toolAnomalyFactor = 3.0
	// anomalyBaselineDays is the number of preceding days in the baseline,
	// today excluded.
	anomalyBaselineDays = 7
	// maxAnomalies caps the reported list after severity sorting.
	maxAnomalies = 10
	// userOutlierPercentile marks per-user spend outliers.
	userOutlierPercentile = 0.95
)

// DetectCostAnomalies compares today's spend (global and per-tool) against
// the mean of the preceding seven days and adds per-user outliers above the
// p95 of per-user window costs. A zero or negative baseline never raises an
// anomaly. The result is sorted by severity multiplier descending and
// capped at maxAnomalies.
func DetectCostAnomalies(d *DailyActivity, agg *Aggregate, now time.Time) []models.CostAnomaly {
	var anomalies []models.CostAnomaly

	today := DayKey(now)
	baseDays := baselineDays(now)

	// Global: today vs trailing mean.
	todayCost, _ := d.Cost[today].Float64()
	if baseline := meanCost(d.Cost, baseDays); baseline > 0 {
		if mult := todayCost / baseline; mult > globalAnomalyFactor {
			anomalies = append(anomalies, models.CostAnomaly{
				Scope:      "global",
				Today:      todayCost,
				Baseline:   baseline,
				Multiplier: mult,
			})
		}
	}

	// Per-tool: same comparison with a stricter factor.
	for tool, byDay := range d.ToolCost {
		toolToday, _ := byDay[today].Float64()
		baseline := meanCost(byDay, baseDays)
		if baseline <= 0 {
			continue
		}
		if mult := toolToday / baseline; mult > toolAnomalyFactor {
			anomalies = append(anomalies, models.CostAnomaly{
				Scope:      "tool",
				Key:        tool,
				Today:      toolToday,
				Baseline:   baseline,
				Multiplier: mult,
			})
		}
	}

	// Per-user outliers above the p95 of per-user window costs.
	if agg != nil && len(agg.PerUser) > 0 {
		costs := make([]float64, 0, len(agg.PerUser))
		for _, u := range agg.PerUser {
			c, _ := u.Cost.Float64()
			costs = append(costs, c)
		}
		if p95 := Percentile(costs, userOutlierPercentile); p95 != nil && *p95 > 0 {
			for userID, u := range agg.PerUser {
				c, _ := u.Cost.Float64()
				if c > *p95 {
					anomalies = append(anomalies, models.CostAnomaly{
						Scope:      "user",
						Key:        userID,
						Today:      c,
						Baseline:   *p95,
						Multiplier: c / *p95,
					})
				}
			}
		}
	}

	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].Multiplier != anomalies[j].Multiplier {
			return anomalies[i].Multiplier > anomalies[j].Multiplier
		}
		return anomalies[i].Key < anomalies[j].Key
	})
	if len(anomalies) > maxAnomalies {
		anomalies = anomalies[:maxAnomalies]
	}
	return anomalies
}

// baselineDays returns the day keys of the seven days preceding today.
func baselineDays(now time.Time) []string {
	days := make([]string, 0, anomalyBaselineDays)
	base := now.UTC().Truncate(24 * time.Hour)
	for i := 1; i <= anomalyBaselineDays; i++ {
		days = append(days, DayKey(base.AddDate(0, 0, -i)))
	}
	return days
}

// meanCost averages per-day spend over the given day keys. Days with no
// recorded spend count as zero.
func meanCost(byDay map[string]decimal.Decimal, days []string) float64 {
	if len(days) == 0 {
		return 0
	}
	values := make([]float64, 0, len(days))
	for _, day := range days {
		v, _ := byDay[day].Float64()
		values = append(values, v)
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}
