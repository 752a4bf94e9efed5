// internal/services/analytics_service.go
package services

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"maw-backend/internal/analytics"
	"maw-backend/internal/config"
	"maw-backend/internal/models"
	"maw-backend/internal/repository"
	apperrors "maw-backend/pkg/errors"
)

// AnalyticsService builds the admin dashboard report. Every request
// recomputes the full report from raw rows; nothing is cached between
// invocations. Sub-scans read independently, so sections may observe
// slightly different data within one request - acceptable for a dashboard.
type AnalyticsService interface {
	BuildReport(ctx context.Context, daysRaw string) (*models.AnalyticsReport, error)
}

type analyticsService struct {
	users          repository.UserRepository
	events         repository.EventRepository
	defaultDays    int
	sectionTimeout time.Duration
	now            func() time.Time
}

func NewAnalyticsService(users repository.UserRepository, events repository.EventRepository, cfg config.AnalyticsConfig) AnalyticsService {
	return &analyticsService{
		users:          users,
		events:         events,
		defaultDays:    cfg.DefaultWindowDays,
		sectionTimeout: time.Duration(cfg.SectionTimeoutSeconds) * time.Second,
		now:            time.Now,
	}
}

// fixedWindows holds the three independent distinct-user scans backing
// DAU/WAU/MAU. The reporting window may differ from these fixed windows,
// so they are not derived from the primary scan.
type fixedWindows struct {
	dau []string
	wau []string
	mau []string
}

type foundingActivity struct {
	active     int
	eventShare *float64
	costShare  *float64
}

func (s *analyticsService) BuildReport(ctx context.Context, daysRaw string) (*models.AnalyticsReport, error) {
	now := s.now().UTC()
	win := analytics.ResolveWindow(daysRaw, s.defaultDays, now)

	// Primary scan. A failure here is fatal to the whole report.
	events, err := s.events.FindSince(ctx, win.Cutoff)
	if err != nil {
		zap.L().Error("primary event scan failed", zap.Int("days", win.Days), zap.Error(err))
		return nil, apperrors.NewAppError(
			apperrors.ErrInternalServer,
			http.StatusInternalServerError,
			"failed to load usage events: "+err.Error(),
		)
	}

	agg := analytics.AggregateEvents(events)
	warnings := &analytics.Warnings{}

	totalUsers := analytics.RunSection(ctx, warnings, "total_users", s.sectionTimeout,
		func(ctx context.Context) (int64, error) {
			return s.users.Count(ctx)
		})

	foundingTotal := analytics.RunSection(ctx, warnings, "founding_total", s.sectionTimeout,
		func(ctx context.Context) (int64, error) {
			return s.users.CountFounding(ctx)
		})

	newUsers := analytics.RunSection(ctx, warnings, "new_users", s.sectionTimeout,
		func(ctx context.Context) ([]models.User, error) {
			return s.users.FindCreatedSince(ctx, win.Cutoff)
		})

	// The three fixed-window scans are independent; issue them with a
	// fixed fan-out and join.
	fw := analytics.RunSection(ctx, warnings, "active_user_windows", s.sectionTimeout,
		func(ctx context.Context) (fixedWindows, error) {
			var out fixedWindows
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				ids, err := s.events.DistinctActiveUsers(gctx, now.AddDate(0, 0, -1))
				out.dau = ids
				return err
			})
			g.Go(func() error {
				ids, err := s.events.DistinctActiveUsers(gctx, now.AddDate(0, 0, -7))
				out.wau = ids
				return err
			})
			g.Go(func() error {
				ids, err := s.events.DistinctActiveUsers(gctx, now.AddDate(0, 0, -30))
				out.mau = ids
				return err
			})
			return out, g.Wait()
		})

	// 30-day daily index backing trend sections and cost baselines. This
	// is an independent scan: the reporting window may be shorter.
	daily := analytics.RunSection(ctx, warnings, "daily_activity", s.sectionTimeout,
		func(ctx context.Context) (*analytics.DailyActivity, error) {
			evs, err := s.events.FindSince(ctx, now.AddDate(0, 0, -30))
			if err != nil {
				return nil, err
			}
			return analytics.BuildDailyActivity(evs), nil
		})

	activation := analytics.RunSection(ctx, warnings, "activation", s.sectionTimeout,
		func(ctx context.Context) (analytics.ActivationStats, error) {
			if len(newUsers) == 0 {
				return analytics.ActivationStats{}, nil
			}
			ids := lo.Map(newUsers, func(u models.User, _ int) string { return u.UserID })
			evs, err := s.events.FindByUserIDsSince(ctx, ids, win.Cutoff)
			if err != nil {
				return analytics.ActivationStats{}, err
			}
			return analytics.ComputeActivation(newUsers, analytics.FirstCoreToolUse(evs)), nil
		})

	retention := analytics.RunSection(ctx, warnings, "week1_retention", s.sectionTimeout,
		func(ctx context.Context) (models.RetentionSection, error) {
			cohort, err := s.users.FindCreatedBetween(ctx, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))
			if err != nil {
				return models.RetentionSection{}, err
			}
			if len(cohort) == 0 {
				return models.RetentionSection{}, nil
			}
			ids := lo.Map(cohort, func(u models.User, _ int) string { return u.UserID })
			evs, err := s.events.FindByUserIDsSince(ctx, ids, now.AddDate(0, 0, -14))
			if err != nil {
				return models.RetentionSection{}, err
			}
			eventTimes := make(map[string][]time.Time, len(cohort))
			for i := range evs {
				if evs[i].UserID != "" {
					eventTimes[evs[i].UserID] = append(eventTimes[evs[i].UserID], evs[i].CreatedAt)
				}
			}
			return analytics.ComputeWeek1Retention(cohort, eventTimes), nil
		})

	founding := analytics.RunSection(ctx, warnings, "founding_activity", s.sectionTimeout,
		func(ctx context.Context) (foundingActivity, error) {
			if len(agg.ActiveUsers) == 0 {
				return foundingActivity{}, nil
			}
			users, err := s.users.FindByUserIDs(ctx, lo.Keys(agg.ActiveUsers))
			if err != nil {
				return foundingActivity{}, err
			}
			return s.foundingShare(agg, users), nil
		})

	report := s.assemble(win, now, agg, assembleInputs{
		totalUsers:    totalUsers,
		foundingTotal: foundingTotal,
		newUsers:      newUsers,
		fw:            fw,
		daily:         daily,
		activation:    activation,
		retention:     retention,
		founding:      founding,
		warnings:      warnings.List(),
	})

	zap.L().Info("analytics report built",
		zap.Int("days", win.Days),
		zap.Int("events", agg.Total),
		zap.Int("active_users", len(agg.ActiveUsers)),
		zap.Int("warnings", len(report.Warnings)))

	return report, nil
}

// foundingShare computes the founding members' slice of window activity
// from the per-user accumulators.
func (s *analyticsService) foundingShare(agg *analytics.Aggregate, users []models.User) foundingActivity {
	var out foundingActivity
	foundingEvents := 0
	foundingCost := 0.0
	for i := range users {
		if !users[i].FoundingMember {
			continue
		}
		out.active++
		if st := agg.PerUser[users[i].UserID]; st != nil {
			foundingEvents += st.Events
			c, _ := st.Cost.Float64()
			foundingCost += c
		}
	}

	if agg.Total > 0 {
		share := float64(foundingEvents) / float64(agg.Total)
		out.eventShare = &share
	}
	if total, _ := agg.TotalCost.Float64(); total > 0 {
		share := foundingCost / total
		out.costShare = &share
	}
	return out
}

type assembleInputs struct {
	totalUsers    int64
	foundingTotal int64
	newUsers      []models.User
	fw            fixedWindows
	daily         *analytics.DailyActivity
	activation    analytics.ActivationStats
	retention     models.RetentionSection
	founding      foundingActivity
	warnings      []string
}

// assemble is a pure shape transform: no metric is computed here beyond
// packaging already-derived values under their stable keys.
func (s *analyticsService) assemble(win analytics.Window, now time.Time, agg *analytics.Aggregate, in assembleInputs) *models.AnalyticsReport {
	report := &models.AnalyticsReport{
		OK: true,
		Window: models.WindowSection{
			Days:        win.Days,
			Cutoff:      win.CutoffISO,
			GeneratedAt: now.Format(time.RFC3339),
		},
		Users: models.UsersSection{
			Total:    in.totalUsers,
			New:      len(in.newUsers),
			Active:   len(agg.ActiveUsers),
			Founding: in.foundingTotal,
		},
		Growth: models.GrowthSection{
			NewUsers:        len(in.newUsers),
			ActivatedUsers:  in.activation.Activated,
			ActivationRate:  in.activation.ActivationRate,
			TTFVMedianHours: in.activation.TTFVMedianHours,
			Week1Retention:  in.retention,
		},
		Warnings: in.warnings,
	}

	report.Engagement = models.EngagementSection{
		DAU:        len(in.fw.dau),
		WAU:        len(in.fw.wau),
		MAU:        len(in.fw.mau),
		Stickiness: analytics.Stickiness(len(in.fw.dau), len(in.fw.mau)),
	}
	if in.daily != nil {
		report.Engagement.MAUTrend = analytics.RollingMAUTrend(in.daily, now, 30, 30)
		report.Engagement.ReturningTrend = analytics.ReturningTrend(in.daily, now, 30)
	}

	report.AI = models.AISection{
		TotalEvents:        agg.Total,
		SuccessEvents:      agg.Successes,
		ErrorEvents:        agg.Errors,
		RateLimitEvents:    agg.RateLimited,
		QuotaBlockedEvents: agg.QuotaBlocked,
		UnauthorizedEvents: agg.Unauthorized,
		TimeoutEvents:      agg.Timeouts,
		LatencyP50MS:       analytics.Percentile(agg.Latencies, 0.50),
		LatencyP95MS:       analytics.Percentile(agg.Latencies, 0.95),
		LatencyP99MS:       analytics.Percentile(agg.Latencies, 0.99),
	}
	if agg.Total > 0 {
		successRate := float64(agg.Successes) / float64(agg.Total)
		errorRate := float64(agg.Errors) / float64(agg.Total)
		report.AI.SuccessRate = &successRate
		report.AI.ErrorRate = &errorRate
	}

	report.UnitEconomics = s.assembleUnitEconomics(agg, in.daily, now)
	report.Reliability = s.assembleReliability(agg)
	report.Tools = s.assembleTools(agg, in.daily, now)

	report.Founding = models.FoundingSection{
		TotalMembers:   in.foundingTotal,
		ActiveInWindow: in.founding.active,
		EventShare:     in.founding.eventShare,
		CostShare:      in.founding.costShare,
		Week1Retention: in.retention.Founding,
	}

	return report
}

func (s *analyticsService) assembleUnitEconomics(agg *analytics.Aggregate, daily *analytics.DailyActivity, now time.Time) models.UnitEconomicsSection {
	totalCost, _ := agg.TotalCost.Float64()
	section := models.UnitEconomicsSection{
		TotalCost:   totalCost,
		TopSpenders: []models.UserCost{},
		Anomalies:   []models.CostAnomaly{},
	}

	if agg.Total > 0 {
		avg := totalCost / float64(agg.Total)
		section.AvgCostPerEvent = &avg
	}
	if len(agg.ActiveUsers) > 0 {
		perUser := totalCost / float64(len(agg.ActiveUsers))
		section.CostPerActiveUser = &perUser
	}

	spenders := make([]models.UserCost, 0, len(agg.PerUser))
	for userID, st := range agg.PerUser {
		c, _ := st.Cost.Float64()
		spenders = append(spenders, models.UserCost{UserID: userID, Cost: c, Events: st.Events})
	}
	sort.Slice(spenders, func(i, j int) bool {
		if spenders[i].Cost != spenders[j].Cost {
			return spenders[i].Cost > spenders[j].Cost
		}
		return spenders[i].UserID < spenders[j].UserID
	})
	if len(spenders) > 10 {
		spenders = spenders[:10]
	}
	section.TopSpenders = spenders

	if daily != nil {
		section.Anomalies = analytics.DetectCostAnomalies(daily, agg, now)
	}
	return section
}

func (s *analyticsService) assembleReliability(agg *analytics.Aggregate) models.ReliabilitySection {
	providers := make([]models.ProviderReliability, 0, len(agg.Providers))
	for name, st := range agg.Providers {
		entry := models.ProviderReliability{
			Provider:     name,
			Total:        st.Total,
			Success:      st.Success,
			Errors:       st.Errors,
			Timeouts:     st.Timeouts,
			RateLimited:  st.RateLimited,
			QuotaBlocked: st.QuotaBlocked,
			Unauthorized: st.Unauthorized,
			LatencyP50MS: analytics.Percentile(st.Latencies, 0.50),
			LatencyP95MS: analytics.Percentile(st.Latencies, 0.95),
		}
		if st.Total > 0 {
			rate := float64(st.Success) / float64(st.Total)
			entry.SuccessRate = &rate
		}
		providers = append(providers, entry)
	}
	sort.Slice(providers, func(i, j int) bool {
		if providers[i].Total != providers[j].Total {
			return providers[i].Total > providers[j].Total
		}
		return providers[i].Provider < providers[j].Provider
	})

	failures := agg.RecentFailures
	if failures == nil {
		failures = []models.FailureSample{}
	}
	return models.ReliabilitySection{
		Providers:      providers,
		RecentFailures: failures,
	}
}

func (s *analyticsService) assembleTools(agg *analytics.Aggregate, daily *analytics.DailyActivity, now time.Time) models.ToolsSection {
	active := len(agg.ActiveUsers)
	tools := make([]models.ToolUsage, 0, len(agg.Tools))
	for name, st := range agg.Tools {
		c, _ := st.Cost.Float64()
		entry := models.ToolUsage{
			Tool:        name,
			Events:      st.Events,
			Cost:        c,
			UniqueUsers: len(st.Users),
		}
		if active > 0 {
			rate := float64(len(st.Users)) / float64(active)
			entry.AdoptionRate = &rate
		}
		tools = append(tools, entry)
	}
	sort.Slice(tools, func(i, j int) bool {
		ri, rj := 0.0, 0.0
		if tools[i].AdoptionRate != nil {
			ri = *tools[i].AdoptionRate
		}
		if tools[j].AdoptionRate != nil {
			rj = *tools[j].AdoptionRate
		}
		if ri != rj {
			return ri > rj
		}
		return tools[i].Tool < tools[j].Tool
	})
	if len(tools) > 10 {
		tools = tools[:10]
	}

	section := models.ToolsSection{
		Top:            tools,
		AdoptionSeries: []models.ToolAdoptionSeries{},
	}
	if daily != nil {
		section.AdoptionSeries = analytics.AdoptionSeries(daily, now, 30, 5)
	}
	return section
}
