// internal/analytics/aggregate.go
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"maw-backend/internal/models"
)

const (
	// maxRecentFailures bounds the diagnostic failure feed.
	maxRecentFailures = 25

	// maxLatencySamples caps per-bucket latency sample lists kept for
	// percentile computation.
	maxLatencySamples = 5000
)

// DayKey buckets a timestamp into its UTC calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ToolStats accumulates per-tool counters over one pass.
type ToolStats struct {
	Events int
	Cost   decimal.Decimal
	Users  map[string]struct{}
}

// ProviderStats accumulates per-provider reliability counters.
type ProviderStats struct {
	Total        int
	Success      int
	Errors       int
	Timeouts     int
	RateLimited  int
	QuotaBlocked int
	Unauthorized int
	Latencies    []float64
}

// UserStats accumulates per-user cost and activity.
type UserStats struct {
	Cost      decimal.Decimal
	Events    int
	Successes int
	Latencies []float64
}

// Aggregate is the in-memory state built by a single forward pass over the
// event stream. It lives for one report request and is never persisted.
type Aggregate struct {
	Total        int
	Successes    int
	Errors       int
	RateLimited  int
	QuotaBlocked int
	Unauthorized int
	Timeouts     int

	TotalCost decimal.Decimal
	Latencies []float64

	ActiveUsers map[string]struct{}
	Tools       map[string]*ToolStats
	Providers   map[string]*ProviderStats
	PerUser     map[string]*UserStats

	// RecentFailures holds up to maxRecentFailures failed events in stream
	// order. The primary scan is newest-first, so these are the most recent.
	RecentFailures []models.FailureSample
}

func NewAggregate() *Aggregate {
	return &Aggregate{
		TotalCost:   decimal.Zero,
		ActiveUsers: make(map[string]struct{}),
		Tools:       make(map[string]*ToolStats),
		Providers:   make(map[string]*ProviderStats),
		PerUser:     make(map[string]*UserStats),
	}
}

// AggregateEvents runs the single O(n) pass over an already-fetched event
// list. No re-scanning: every accumulator is updated per event.
func AggregateEvents(events []models.AIUsageEvent) *Aggregate {
	agg := NewAggregate()
	for i := range events {
		agg.Observe(&events[i])
	}
	return agg
}

// Observe folds one event into every accumulator.
func (a *Aggregate) Observe(ev *models.AIUsageEvent) {
	flags := Classify(*ev)
	cost := ev.Cost()
	latency, hasLatency := ev.Latency()

	a.Total++
	a.TotalCost = a.TotalCost.Add(cost)
	if flags.Success {
		a.Successes++
	}
	if flags.Error {
		a.Errors++
	}
	if flags.RateLimited {
		a.RateLimited++
	}
	if flags.QuotaBlocked {
		a.QuotaBlocked++
	}
	if flags.Unauthorized {
		a.Unauthorized++
	}
	if flags.Timeout {
		a.Timeouts++
	}
	if hasLatency && len(a.Latencies) < maxLatencySamples {
		a.Latencies = append(a.Latencies, float64(latency))
	}

	if ev.UserID != "" {
		a.ActiveUsers[ev.UserID] = struct{}{}
	}

	tool := a.Tools[ev.Tool]
	if tool == nil {
		tool = &ToolStats{Cost: decimal.Zero, Users: make(map[string]struct{})}
		a.Tools[ev.Tool] = tool
	}
	tool.Events++
	tool.Cost = tool.Cost.Add(cost)
	if ev.UserID != "" {
		tool.Users[ev.UserID] = struct{}{}
	}

	if ev.Provider != "" {
		prov := a.Providers[ev.Provider]
		if prov == nil {
			prov = &ProviderStats{}
			a.Providers[ev.Provider] = prov
		}
		prov.Total++
		if flags.Success {
			prov.Success++
		}
		if flags.Error {
			prov.Errors++
		}
		if flags.Timeout {
			prov.Timeouts++
		}
		if flags.RateLimited {
			prov.RateLimited++
		}
		if flags.QuotaBlocked {
			prov.QuotaBlocked++
		}
		if flags.Unauthorized {
			prov.Unauthorized++
		}
		if hasLatency && len(prov.Latencies) < maxLatencySamples {
			prov.Latencies = append(prov.Latencies, float64(latency))
		}
	}

	if ev.UserID != "" {
		user := a.PerUser[ev.UserID]
		if user == nil {
			user = &UserStats{Cost: decimal.Zero}
			a.PerUser[ev.UserID] = user
		}
		user.Cost = user.Cost.Add(cost)
		user.Events++
		if flags.Success {
			user.Successes++
		}
		if hasLatency && len(user.Latencies) < maxLatencySamples {
			user.Latencies = append(user.Latencies, float64(latency))
		}
	}

	if flags.Error && len(a.RecentFailures) < maxRecentFailures {
		a.RecentFailures = append(a.RecentFailures, models.FailureSample{
			EventID:    ev.ID.Hex(),
			UserID:     ev.UserID,
			Tool:       ev.Tool,
			Provider:   ev.Provider,
			Model:      ev.Model,
			Outcome:    ev.Outcome,
			HTTPStatus: ev.HTTPStatus,
			ErrorCode:  ev.ErrorCode,
			ErrorMsg:   ev.ErrorMsg,
			CreatedAt:  ev.CreatedAt,
		})
	}
}

// DailyActivity indexes the 30-day enrichment scan by UTC calendar day.
// It backs every rolling-window calculation: MAU trend, returning users,
// tool adoption over time and daily cost baselines.
type DailyActivity struct {
	// Users maps day -> set of user ids active that day.
	Users map[string]map[string]struct{}
	// ToolUsers maps tool -> day -> set of user ids.
	ToolUsers map[string]map[string]map[string]struct{}
	// Cost maps day -> total cost that day.
	Cost map[string]decimal.Decimal
	// ToolCost maps tool -> day -> cost.
	ToolCost map[string]map[string]decimal.Decimal
}

// BuildDailyActivity folds an event list into the daily index.
func BuildDailyActivity(events []models.AIUsageEvent) *DailyActivity {
	d := &DailyActivity{
		Users:     make(map[string]map[string]struct{}),
		ToolUsers: make(map[string]map[string]map[string]struct{}),
		Cost:      make(map[string]decimal.Decimal),
		ToolCost:  make(map[string]map[string]decimal.Decimal),
	}

	for i := range events {
		ev := &events[i]
		day := DayKey(ev.CreatedAt)
		cost := ev.Cost()

		d.Cost[day] = d.Cost[day].Add(cost)

		toolDays := d.ToolCost[ev.Tool]
		if toolDays == nil {
			toolDays = make(map[string]decimal.Decimal)
			d.ToolCost[ev.Tool] = toolDays
		}
		toolDays[day] = toolDays[day].Add(cost)

		if ev.UserID == "" {
			continue
		}

		users := d.Users[day]
		if users == nil {
			users = make(map[string]struct{})
			d.Users[day] = users
		}
		users[ev.UserID] = struct{}{}

		toolUsers := d.ToolUsers[ev.Tool]
		if toolUsers == nil {
			toolUsers = make(map[string]map[string]struct{})
			d.ToolUsers[ev.Tool] = toolUsers
		}
		dayUsers := toolUsers[day]
		if dayUsers == nil {
			dayUsers = make(map[string]struct{})
			toolUsers[day] = dayUsers
		}
		dayUsers[ev.UserID] = struct{}{}
	}

	return d
}
