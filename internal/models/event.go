// internal/models/event.go
package models

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome vocabulary. Every usage event carries exactly one of these tags;
// anything outside the set is treated as an error outcome downstream.
const (
	OutcomeSuccessCharged    = "success-charged"
	OutcomeSuccessNotCharged = "success-not-charged"
	OutcomeAllowed           = "allowed"
	OutcomeBlockedRateLimit  = "blocked-rate-limit"
	OutcomeBlockedQuota      = "blocked-quota"
	OutcomeUnauthorized      = "unauthorized"
	OutcomeError             = "error"
)

// Error codes the classifier matches on.
const (
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeQuotaExceeded     = "QUOTA_EXCEEDED"
	ErrCodeUsageLimitReached = "USAGE_LIMIT_REACHED"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeTimeout           = "TIMEOUT"
)

// ToolUnknown is the fallback tool key for events recorded without one.
const ToolUnknown = "unknown"

// AIUsageEvent is one append-only fact in the usage log. Events are never
// mutated or deleted; created_at is the sole ordering key.
type AIUsageEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     string             `bson:"user_id,omitempty" json:"user_id,omitempty"` // empty for unauthenticated/system events
	Tool       string             `bson:"tool" json:"tool"`
	Endpoint   string             `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
	Provider   string             `bson:"provider,omitempty" json:"provider,omitempty"`
	Model      string             `bson:"model,omitempty" json:"model,omitempty"`
	Outcome    string             `bson:"outcome" json:"outcome"`
	HTTPStatus int                `bson:"http_status,omitempty" json:"http_status,omitempty"`
	ErrorCode  string             `bson:"error_code,omitempty" json:"error_code,omitempty"`
	ErrorMsg   string             `bson:"error_msg,omitempty" json:"error_msg,omitempty"`
	LatencyMS  *int64             `bson:"latency_ms,omitempty" json:"latency_ms,omitempty"`
	CostUSD    *float64           `bson:"cost_usd,omitempty" json:"cost_usd,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Normalize cleans up a raw event at the ingestion boundary so nothing
// downstream has to re-validate: tool defaults to "unknown", non-finite
// costs are coerced to zero.
func (e *AIUsageEvent) Normalize() {
	if strings.TrimSpace(e.Tool) == "" {
		e.Tool = ToolUnknown
	}
	if e.CostUSD != nil && (math.IsNaN(*e.CostUSD) || math.IsInf(*e.CostUSD, 0)) {
		zero := 0.0
		e.CostUSD = &zero
	}
}

// Cost returns the event cost as a decimal, zero when absent or non-finite.
func (e *AIUsageEvent) Cost() decimal.Decimal {
	if e.CostUSD == nil || math.IsNaN(*e.CostUSD) || math.IsInf(*e.CostUSD, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*e.CostUSD)
}

// Latency returns the latency sample and whether it should be counted.
// Negative latencies are invalid and skipped.
func (e *AIUsageEvent) Latency() (int64, bool) {
	if e.LatencyMS == nil || *e.LatencyMS < 0 {
		return 0, false
	}
	return *e.LatencyMS, true
}

// RecordEventRequest is the ingestion payload for POST /api/v1/events.
type RecordEventRequest struct {
	Tool       string   `json:"tool"`
	Endpoint   string   `json:"endpoint,omitempty"`
	Provider   string   `json:"provider,omitempty"`
	Model      string   `json:"model,omitempty"`
	Outcome    string   `json:"outcome"`
	HTTPStatus int      `json:"http_status,omitempty"`
	ErrorCode  string   `json:"error_code,omitempty"`
	ErrorMsg   string   `json:"error_msg,omitempty"`
	LatencyMS  *int64   `json:"latency_ms,omitempty"`
	CostUSD    *float64 `json:"cost_usd,omitempty"`
}

func (r *RecordEventRequest) Validate() error {
	if strings.TrimSpace(r.Outcome) == "" {
		return errors.New("outcome is required")
	}
	return nil
}
