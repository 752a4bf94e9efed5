// internal/models/analytics.go
package models

import "time"

// AnalyticsReport is the full admin dashboard payload. Keys are grouped by
// concern and stable; the front end binds to them directly.
type AnalyticsReport struct {
	OK            bool                  `json:"ok"`
	Window        WindowSection         `json:"window"`
	Users         UsersSection          `json:"users"`
	Growth        GrowthSection         `json:"growth"`
	Engagement    EngagementSection     `json:"engagement"`
	AI            AISection             `json:"ai"`
	UnitEconomics UnitEconomicsSection  `json:"unit_economics"`
	Reliability   ReliabilitySection    `json:"reliability"`
	Tools         ToolsSection          `json:"tools"`
	Founding      FoundingSection       `json:"founding"`
	Warnings      []string              `json:"warnings,omitempty"`
}

type WindowSection struct {
	Days        int    `json:"days"`
	Cutoff      string `json:"cutoff"`
	GeneratedAt string `json:"generated_at"`
}

type UsersSection struct {
	Total   int64 `json:"total"`
	New     int   `json:"new"`
	Active  int   `json:"active"`
	Founding int64 `json:"founding"`
}

type GrowthSection struct {
	NewUsers        int              `json:"new_users"`
	ActivatedUsers  int              `json:"activated_users"`
	ActivationRate  *float64         `json:"activation_rate"`
	TTFVMedianHours *float64         `json:"ttfv_median_hours"`
	Week1Retention  RetentionSection `json:"week1_retention"`
}

type RetentionSection struct {
	CohortSize  int            `json:"cohort_size"`
	Retained    int            `json:"retained"`
	Rate        *float64       `json:"rate"`
	Founding    RetentionSplit `json:"founding"`
	NonFounding RetentionSplit `json:"non_founding"`
}

type RetentionSplit struct {
	CohortSize int      `json:"cohort_size"`
	Retained   int      `json:"retained"`
	Rate       *float64 `json:"rate"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type EngagementSection struct {
	DAU            int        `json:"dau"`
	WAU            int        `json:"wau"`
	MAU            int        `json:"mau"`
	Stickiness     *float64   `json:"stickiness"`
	MAUTrend       []DayCount `json:"mau_trend_30d"`
	ReturningTrend []DayCount `json:"returning_users_trend"`
}

type AISection struct {
	TotalEvents        int      `json:"total_events"`
	SuccessEvents      int      `json:"success_events"`
	ErrorEvents        int      `json:"error_events"`
	RateLimitEvents    int      `json:"rate_limit_events"`
	QuotaBlockedEvents int      `json:"quota_blocked_events"`
	UnauthorizedEvents int      `json:"unauthorized_events"`
	TimeoutEvents      int      `json:"timeout_events"`
	SuccessRate        *float64 `json:"success_rate"`
	ErrorRate          *float64 `json:"error_rate"`
	LatencyP50MS       *float64 `json:"latency_p50_ms"`
	LatencyP95MS       *float64 `json:"latency_p95_ms"`
	LatencyP99MS       *float64 `json:"latency_p99_ms"`
}

type UserCost struct {
	UserID string  `json:"user_id"`
	Cost   float64 `json:"cost"`
	Events int     `json:"events"`
}

type CostAnomaly struct {
	Scope      string  `json:"scope"` // "global", "tool" or "user"
	Key        string  `json:"key,omitempty"`
	Today      float64 `json:"today"`
	Baseline   float64 `json:"baseline"`
	Multiplier float64 `json:"multiplier"`
}

type UnitEconomicsSection struct {
	TotalCost         float64       `json:"total_cost"`
	AvgCostPerEvent   *float64      `json:"avg_cost_per_event"`
	CostPerActiveUser *float64      `json:"cost_per_active_user"`
	TopSpenders       []UserCost    `json:"top_spenders"`
	Anomalies         []CostAnomaly `json:"anomalies"`
}

type ProviderReliability struct {
	Provider     string   `json:"provider"`
	Total        int      `json:"total"`
	Success      int      `json:"success"`
	Errors       int      `json:"errors"`
	Timeouts     int      `json:"timeouts"`
	RateLimited  int      `json:"rate_limited"`
	QuotaBlocked int      `json:"quota_blocked"`
	Unauthorized int      `json:"unauthorized"`
	SuccessRate  *float64 `json:"success_rate"`
	LatencyP50MS *float64 `json:"latency_p50_ms"`
	LatencyP95MS *float64 `json:"latency_p95_ms"`
}

type FailureSample struct {
	EventID    string    `json:"event_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Tool       string    `json:"tool"`
	Provider   string    `json:"provider,omitempty"`
	Model      string    `json:"model,omitempty"`
	Outcome    string    `json:"outcome"`
	HTTPStatus int       `json:"http_status,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReliabilitySection struct {
	Providers      []ProviderReliability `json:"providers"`
	RecentFailures []FailureSample       `json:"recent_failures"`
}

type ToolUsage struct {
	Tool         string   `json:"tool"`
	Events       int      `json:"events"`
	Cost         float64  `json:"cost"`
	UniqueUsers  int      `json:"unique_users"`
	AdoptionRate *float64 `json:"adoption_rate"`
}

type AdoptionPoint struct {
	Day   string  `json:"day"`
	Users int     `json:"users"`
	Rate  float64 `json:"rate"`
}

type ToolAdoptionSeries struct {
	Tool   string          `json:"tool"`
	Points []AdoptionPoint `json:"points"`
}

type ToolsSection struct {
	Top            []ToolUsage          `json:"top"`
	AdoptionSeries []ToolAdoptionSeries `json:"adoption_30d"`
}

type FoundingSection struct {
	TotalMembers   int64          `json:"total_members"`
	ActiveInWindow int            `json:"active_in_window"`
	EventShare     *float64       `json:"event_share"`
	CostShare      *float64       `json:"cost_share"`
	Week1Retention RetentionSplit `json:"week1_retention"`
}
