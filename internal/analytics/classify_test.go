package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"maw-backend/internal/models"
)

func TestClassifySuccessOutcomes(t *testing.T) {
	for _, outcome := range []string{
		models.OutcomeSuccessCharged,
		models.OutcomeSuccessNotCharged,
		models.OutcomeAllowed,
	} {
		t.Run(outcome, func(t *testing.T) {
			f := Classify(models.AIUsageEvent{Outcome: outcome, HTTPStatus: 200})
			assert.True(t, f.Success)
			assert.False(t, f.Error)
		})
	}
}

func TestClassifyFacets(t *testing.T) {
	tests := []struct {
		name     string
		event    models.AIUsageEvent
		expected EventFlags
	}{
		{
			name:     "rate limit by outcome",
			event:    models.AIUsageEvent{Outcome: models.OutcomeBlockedRateLimit},
			expected: EventFlags{Error: true, RateLimited: true},
		},
		{
			name:     "rate limit by status 429 stacks with error",
			event:    models.AIUsageEvent{Outcome: "error-upstream", HTTPStatus: 429},
			expected: EventFlags{Error: true, RateLimited: true},
		},
		{
			name:     "rate limit by error code",
			event:    models.AIUsageEvent{Outcome: models.OutcomeError, ErrorCode: models.ErrCodeRateLimited},
			expected: EventFlags{Error: true, RateLimited: true},
		},
		{
			name:     "quota by outcome",
			event:    models.AIUsageEvent{Outcome: models.OutcomeBlockedQuota},
			expected: EventFlags{Error: true, QuotaBlocked: true},
		},
		{
			name:     "quota by usage limit code",
			event:    models.AIUsageEvent{Outcome: models.OutcomeError, ErrorCode: models.ErrCodeUsageLimitReached},
			expected: EventFlags{Error: true, QuotaBlocked: true},
		},
		{
			name:     "unauthorized by status 403",
			event:    models.AIUsageEvent{Outcome: models.OutcomeError, HTTPStatus: 403},
			expected: EventFlags{Error: true, Unauthorized: true},
		},
		{
			name:     "timeout by status 504",
			event:    models.AIUsageEvent{Outcome: models.OutcomeError, HTTPStatus: 504},
			expected: EventFlags{Error: true, Timeout: true},
		},
		{
			name:     "timeout by error code",
			event:    models.AIUsageEvent{Outcome: models.OutcomeError, ErrorCode: models.ErrCodeTimeout},
			expected: EventFlags{Error: true, Timeout: true},
		},
		{
			name:     "success with 200",
			event:    models.AIUsageEvent{Outcome: models.OutcomeSuccessCharged, HTTPStatus: 200},
			expected: EventFlags{Success: true},
		},
		{
			name:     "unknown outcome is error",
			event:    models.AIUsageEvent{Outcome: "something-new"},
			expected: EventFlags{Error: true},
		},
		{
			name:  "rate limited success keeps both facets",
			event: models.AIUsageEvent{Outcome: models.OutcomeAllowed, HTTPStatus: 429},
			expected: EventFlags{Success: true, RateLimited: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.event))
		})
	}
}

// Every event is exactly one of success/error, never both, never neither.
func TestClassifySuccessErrorExclusive(t *testing.T) {
	events := []models.AIUsageEvent{
		{Outcome: models.OutcomeSuccessCharged},
		{Outcome: models.OutcomeBlockedRateLimit, HTTPStatus: 429},
		{Outcome: "error-upstream", HTTPStatus: 500},
		{Outcome: "", HTTPStatus: 200},
		{Outcome: models.OutcomeAllowed, ErrorCode: models.ErrCodeTimeout},
		{Outcome: models.OutcomeUnauthorized, HTTPStatus: 401},
	}

	for _, ev := range events {
		f := Classify(ev)
		assert.NotEqual(t, f.Success, f.Error, "success and error must be exclusive and exhaustive: %+v", ev)
	}
}
