// internal/analytics/classify.go
package analytics

import "maw-backend/internal/models"

// EventFlags are independent boolean facets of one usage event. Success and
// Error are exclusive and exhaustive; the remaining facets stack freely, so
// a 429 with an error outcome is both RateLimited and Error and bumps both
// counters.
type EventFlags struct {
	Success      bool
	Error        bool
	RateLimited  bool
	QuotaBlocked bool
	Unauthorized bool
	Timeout      bool
}

// Classify buckets one event into its outcome facets. Pure; first match
// wins within a facet, facets are evaluated independently.
func Classify(ev models.AIUsageEvent) EventFlags {
	var f EventFlags

	f.RateLimited = ev.Outcome == models.OutcomeBlockedRateLimit ||
		ev.HTTPStatus == 429 ||
		ev.ErrorCode == models.ErrCodeRateLimited

	f.QuotaBlocked = ev.Outcome == models.OutcomeBlockedQuota ||
		ev.ErrorCode == models.ErrCodeQuotaExceeded ||
		ev.ErrorCode == models.ErrCodeUsageLimitReached

	f.Unauthorized = ev.Outcome == models.OutcomeUnauthorized ||
		ev.HTTPStatus == 401 ||
		ev.HTTPStatus == 403 ||
		ev.ErrorCode == models.ErrCodeUnauthorized

	f.Timeout = ev.ErrorCode == models.ErrCodeTimeout ||
		ev.HTTPStatus == 504 ||
		ev.HTTPStatus == 408

	switch ev.Outcome {
	case models.OutcomeSuccessCharged, models.OutcomeSuccessNotCharged, models.OutcomeAllowed:
		f.Success = true
	default:
		f.Error = true
	}

	return f
}
