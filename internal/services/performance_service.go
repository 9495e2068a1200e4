package services

import (
	"context"
	"log/slog"
	"time"

	"submission-service/internal/models"
	"submission-service/internal/obs"

	"github.com/shopspring/decimal"
)

const unknownGroup = "Unknown"

type IPerformanceService interface {
	GetPerformance(ctx context.Context) (*models.PerformanceReport, error)
}

type PerformanceService struct {
	submissionRepo ISubmissionRepository
	cache          IPerformanceCache
	now            func() time.Time
}

func NewPerformanceService(submissionRepo ISubmissionRepository, cache IPerformanceCache) *PerformanceService {
	return &PerformanceService{submissionRepo: submissionRepo, cache: cache, now: time.Now}
}

// GetPerformance serves the cached report when there is one. Cache failures
// fall back to recomputing.
func (s *PerformanceService) GetPerformance(ctx context.Context) (*models.PerformanceReport, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			obs.PerformanceCache.WithLabelValues("error").Inc()
			slog.Warn("PerformanceService: Cache read failed", "error", err)
		case cached != nil:
			obs.PerformanceCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			obs.PerformanceCache.WithLabelValues("miss").Inc()
		}
	}

	submissions, err := s.submissionRepo.ListByIssuedAtDesc(ctx)
	if err != nil {
		return nil, err
	}
	report := AggregatePerformance(submissions, s.now())

	if s.cache != nil {
		if err := s.cache.Set(ctx, &report); err != nil {
			slog.Warn("PerformanceService: Cache write failed", "error", err)
		}
	}
	return &report, nil
}

// AggregatePerformance folds submissions into per-group and team statistics.
// Groups are keyed by submission type and keep first-seen order.
func AggregatePerformance(submissions []models.Submission, now time.Time) models.PerformanceReport {
	type totals struct {
		anp     decimal.Decimal
		monthly decimal.Decimal
	}

	groups := []models.APPerformance{}
	groupTotals := []totals{}
	index := map[string]int{}

	var team models.TeamStats
	teamANP, teamMonthly := decimal.Zero, decimal.Zero

	for _, sub := range submissions {
		name := sub.SubmissionType
		if name == "" {
			name = unknownGroup
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, models.APPerformance{APName: name, Submissions: []models.Submission{}})
			groupTotals = append(groupTotals, totals{anp: decimal.Zero, monthly: decimal.Zero})
		}
		g := &groups[i]
		g.TotalSubmissions++
		g.Submissions = append(g.Submissions, sub)
		team.TotalSubmissions++

		switch sub.Status {
		case models.StatusIssued:
			anp := sub.ANP.Decimal
			g.Issued++
			team.TotalIssued++
			groupTotals[i].anp = groupTotals[i].anp.Add(anp)
			teamANP = teamANP.Add(anp)
			if sameMonth(sub.IssuedAt, now) {
				groupTotals[i].monthly = groupTotals[i].monthly.Add(anp)
				teamMonthly = teamMonthly.Add(anp)
			}
		case models.StatusDeclined:
			g.Declined++
			team.TotalDeclined++
		default:
			g.Pending++
			team.TotalPending++
		}
	}

	rateSum := decimal.Zero
	rated := 0
	for i := range groups {
		g := &groups[i]
		g.TotalANP = models.NewMoney(groupTotals[i].anp)
		g.MonthlyANP = models.NewMoney(groupTotals[i].monthly)
		g.ConversionRate = "0.0"
		if g.TotalSubmissions > 0 {
			rate := decimal.NewFromInt(int64(g.Issued) * 100).
				Div(decimal.NewFromInt(int64(g.TotalSubmissions))).
				Round(1)
			g.ConversionRate = rate.StringFixed(1)
			rateSum = rateSum.Add(rate)
			rated++
		}
	}

	team.TotalTeamANP = models.NewMoney(teamANP)
	team.TotalMonthlyANP = models.NewMoney(teamMonthly)
	team.AverageConversionRate = "0.0"
	if rated > 0 {
		team.AverageConversionRate = rateSum.Div(decimal.NewFromInt(int64(rated))).StringFixed(1)
	}

	return models.PerformanceReport{PerformanceByAP: groups, TeamStats: team}
}

func sameMonth(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}
