package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maw-backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestAggregateCountsAreConsistent(t *testing.T) {
	events := []models.AIUsageEvent{
		{UserID: "u1", Tool: "effect_engine", Provider: "openai", Outcome: models.OutcomeSuccessCharged, LatencyMS: ptr(int64(120)), CostUSD: ptr(0.02), CreatedAt: time.Now()},
		{UserID: "u1", Tool: "effect_engine", Provider: "openai", Outcome: "error-upstream", HTTPStatus: 429, LatencyMS: ptr(int64(50)), CreatedAt: time.Now()},
		{UserID: "u2", Tool: "patter_writer", Provider: "anthropic", Outcome: models.OutcomeAllowed, LatencyMS: ptr(int64(300)), CostUSD: ptr(0.05), CreatedAt: time.Now()},
		{Tool: "unknown", Provider: "openai", Outcome: models.OutcomeUnauthorized, HTTPStatus: 401, CreatedAt: time.Now()},
	}

	agg := AggregateEvents(events)

	assert.Equal(t, 4, agg.Total)
	assert.Equal(t, agg.Total, agg.Successes+agg.Errors, "success + error must equal total")
	assert.Equal(t, 2, agg.Successes)
	assert.Equal(t, 2, agg.Errors)
	assert.Equal(t, 1, agg.RateLimited)
	assert.Equal(t, 1, agg.Unauthorized)

	// Ownerless events don't join the active set.
	assert.Len(t, agg.ActiveUsers, 2)

	// Per-tool accumulators.
	require.Contains(t, agg.Tools, "effect_engine")
	assert.Equal(t, 2, agg.Tools["effect_engine"].Events)
	assert.Len(t, agg.Tools["effect_engine"].Users, 1)

	// Per-provider reliability.
	require.Contains(t, agg.Providers, "openai")
	openai := agg.Providers["openai"]
	assert.Equal(t, 3, openai.Total)
	assert.Equal(t, 1, openai.Success)
	assert.Equal(t, 2, openai.Errors)
	assert.Equal(t, 1, openai.RateLimited)
	assert.Len(t, openai.Latencies, 2) // unauthorized event had no latency

	// Cost accumulation.
	cost, _ := agg.TotalCost.Float64()
	assert.InDelta(t, 0.07, cost, 1e-9)
}

func TestAggregateRateLimitedErrorCountsBoth(t *testing.T) {
	agg := AggregateEvents([]models.AIUsageEvent{
		{UserID: "u1", Tool: "effect_engine", Outcome: "error-upstream", HTTPStatus: 429, CreatedAt: time.Now()},
	})

	assert.Equal(t, 1, agg.RateLimited)
	assert.Equal(t, 1, agg.Errors)
	assert.Equal(t, 0, agg.Successes)
}

func TestAggregateNegativeLatencySkipped(t *testing.T) {
	agg := AggregateEvents([]models.AIUsageEvent{
		{UserID: "u1", Tool: "t", Outcome: models.OutcomeAllowed, LatencyMS: ptr(int64(-5)), CreatedAt: time.Now()},
		{UserID: "u1", Tool: "t", Outcome: models.OutcomeAllowed, LatencyMS: ptr(int64(10)), CreatedAt: time.Now()},
	})

	assert.Equal(t, []float64{10}, agg.Latencies)
}

func TestAggregateRecentFailuresBounded(t *testing.T) {
	events := make([]models.AIUsageEvent, 0, 40)
	for i := 0; i < 40; i++ {
		events = append(events, models.AIUsageEvent{
			UserID:    fmt.Sprintf("u%d", i),
			Tool:      "effect_engine",
			Outcome:   "error-upstream",
			HTTPStatus: 500,
			CreatedAt: time.Now(),
		})
	}

	agg := AggregateEvents(events)
	assert.Len(t, agg.RecentFailures, 25)
	assert.Equal(t, "u0", agg.RecentFailures[0].UserID, "stream order preserved")
}

func TestBuildDailyActivity(t *testing.T) {
	day1 := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 11, 23, 59, 0, 0, time.UTC)

	d := BuildDailyActivity([]models.AIUsageEvent{
		{UserID: "u1", Tool: "effect_engine", Outcome: models.OutcomeAllowed, CostUSD: ptr(1.0), CreatedAt: day1},
		{UserID: "u2", Tool: "effect_engine", Outcome: models.OutcomeAllowed, CostUSD: ptr(2.0), CreatedAt: day1},
		{UserID: "u1", Tool: "patter_writer", Outcome: models.OutcomeAllowed, CostUSD: ptr(4.0), CreatedAt: day2},
		{Tool: "effect_engine", Outcome: models.OutcomeAllowed, CostUSD: ptr(8.0), CreatedAt: day2}, // system event: cost counts, no user
	})

	assert.Len(t, d.Users["2025-06-10"], 2)
	assert.Len(t, d.Users["2025-06-11"], 1)

	c1, _ := d.Cost["2025-06-10"].Float64()
	c2, _ := d.Cost["2025-06-11"].Float64()
	assert.Equal(t, 3.0, c1)
	assert.Equal(t, 12.0, c2)

	assert.Len(t, d.ToolUsers["effect_engine"]["2025-06-10"], 2)
	tc, _ := d.ToolCost["effect_engine"]["2025-06-11"].Float64()
	assert.Equal(t, 8.0, tc)
}
