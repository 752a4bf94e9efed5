package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maw-backend/internal/models"
)

func TestFirstCoreToolUse(t *testing.T) {
	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	first := FirstCoreToolUse([]models.AIUsageEvent{
		{UserID: "u1", Tool: "effect_engine", CreatedAt: base.Add(2 * time.Hour)},
		{UserID: "u1", Tool: "effect_engine", CreatedAt: base.Add(1 * time.Hour)}, // earlier, any order
		{UserID: "u1", Tool: "csv_export", CreatedAt: base},                       // not a core tool
		{UserID: "u2", Tool: "patter_writer", CreatedAt: base.Add(3 * time.Hour)},
		{Tool: "effect_engine", CreatedAt: base}, // ownerless
	})

	assert.Equal(t, base.Add(1*time.Hour), first["u1"])
	assert.Equal(t, base.Add(3*time.Hour), first["u2"])
	assert.Len(t, first, 2)
}

func TestComputeActivationBoundary(t *testing.T) {
	created := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	users := []models.User{
		{UserID: "exactly_24h", CreatedAt: created},
		{UserID: "just_over", CreatedAt: created},
	}
	firstCore := map[string]time.Time{
		"exactly_24h": created.Add(24 * time.Hour),                       // inclusive boundary
		"just_over":   created.Add(24*time.Hour + time.Millisecond),      // one ms late
	}

	out := ComputeActivation(users, firstCore)
	assert.Equal(t, 2, out.NewUsers)
	assert.Equal(t, 1, out.Activated, "activation boundary is inclusive at exactly 24h")
	require.NotNil(t, out.ActivationRate)
	assert.Equal(t, 0.5, *out.ActivationRate)
}

func TestComputeActivationNegativeTTFVDiscarded(t *testing.T) {
	created := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	users := []models.User{
		{UserID: "clock_skew", CreatedAt: created},
		{UserID: "normal", CreatedAt: created},
	}
	firstCore := map[string]time.Time{
		"clock_skew": created.Add(-1 * time.Hour), // event before signup: invalid
		"normal":     created.Add(2 * time.Hour),
	}

	out := ComputeActivation(users, firstCore)
	assert.Equal(t, 1, out.Activated)
	require.NotNil(t, out.TTFVMedianHours)
	assert.Equal(t, 2.0, *out.TTFVMedianHours, "negative deltas must not enter the TTFV sample")
}

func TestComputeActivationNoUsers(t *testing.T) {
	out := ComputeActivation(nil, nil)
	assert.Equal(t, 0, out.NewUsers)
	assert.Equal(t, 0, out.Activated)
	assert.Nil(t, out.ActivationRate)
	assert.Nil(t, out.TTFVMedianHours)
}

func TestComputeWeek1Retention(t *testing.T) {
	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	cohort := []models.User{
		{UserID: "retained_founding", CreatedAt: created, FoundingMember: true},
		{UserID: "retained_regular", CreatedAt: created},
		{UserID: "churned", CreatedAt: created},
		{UserID: "too_late", CreatedAt: created},
	}
	eventTimes := map[string][]time.Time{
		"retained_founding": {created.Add(2 * 24 * time.Hour)},
		"retained_regular":  {created.Add(7 * 24 * time.Hour)}, // boundary inclusive
		"too_late":          {created.Add(8 * 24 * time.Hour)},
	}

	section := ComputeWeek1Retention(cohort, eventTimes)
	assert.Equal(t, 4, section.CohortSize)
	assert.Equal(t, 2, section.Retained)
	require.NotNil(t, section.Rate)
	assert.Equal(t, 0.5, *section.Rate)

	assert.Equal(t, 1, section.Founding.CohortSize)
	assert.Equal(t, 1, section.Founding.Retained)
	assert.Equal(t, 3, section.NonFounding.CohortSize)
	assert.Equal(t, 1, section.NonFounding.Retained)
}

func TestComputeWeek1RetentionEmptyCohort(t *testing.T) {
	section := ComputeWeek1Retention(nil, nil)
	assert.Equal(t, 0, section.CohortSize)
	assert.Nil(t, section.Rate)
	assert.Nil(t, section.Founding.Rate)
}
