package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"submission-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var perfNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func perfSubmission(group string, status models.SubmissionStatus, anp string, issuedAt time.Time) models.Submission {
	return models.Submission{
		SubmissionType: group,
		Status:         status,
		ANP:            models.MoneyFromString(anp),
		IssuedAt:       issuedAt,
	}
}

// ============================================================================
// AGGREGATION
// ============================================================================

func TestAggregatePerformance_SingleGroup(t *testing.T) {
	var subs []models.Submission
	for i := 0; i < 6; i++ {
		subs = append(subs, perfSubmission("Team Rizal", models.StatusIssued, "1000", perfNow.AddDate(0, -i, 0)))
	}
	for i := 0; i < 2; i++ {
		subs = append(subs, perfSubmission("Team Rizal", models.StatusDeclined, "500", perfNow))
		subs = append(subs, perfSubmission("Team Rizal", models.StatusPending, "500", perfNow))
	}

	report := AggregatePerformance(subs, perfNow)

	require.Len(t, report.PerformanceByAP, 1)
	g := report.PerformanceByAP[0]
	assert.Equal(t, "Team Rizal", g.APName)
	assert.Equal(t, 10, g.TotalSubmissions)
	assert.Equal(t, 6, g.Issued)
	assert.Equal(t, 2, g.Declined)
	assert.Equal(t, 2, g.Pending)
	assert.Equal(t, "60.0", g.ConversionRate)
	assert.Equal(t, "6000.00", g.TotalANP.StringFixed(2))
	assert.Equal(t, "1000.00", g.MonthlyANP.StringFixed(2), "only the current month counts")
	assert.Len(t, g.Submissions, 10)

	team := report.TeamStats
	assert.Equal(t, "6000.00", team.TotalTeamANP.StringFixed(2))
	assert.Equal(t, "1000.00", team.TotalMonthlyANP.StringFixed(2))
	assert.Equal(t, 10, team.TotalSubmissions)
	assert.Equal(t, 6, team.TotalIssued)
	assert.Equal(t, 2, team.TotalPending)
	assert.Equal(t, 2, team.TotalDeclined)
	assert.Equal(t, "60.0", team.AverageConversionRate)
}

func TestAggregatePerformance_GroupsAndAverage(t *testing.T) {
	subs := []models.Submission{
		perfSubmission("B", models.StatusIssued, "100", perfNow),
		perfSubmission("A", models.StatusIssued, "100", perfNow),
		perfSubmission("A", models.StatusPending, "100", perfNow),
		perfSubmission("A", models.StatusPending, "100", perfNow),
		perfSubmission("", models.StatusDeclined, "100", perfNow),
		perfSubmission("B", "Unknown status", "100", perfNow),
	}

	report := AggregatePerformance(subs, perfNow)

	require.Len(t, report.PerformanceByAP, 3)
	assert.Equal(t, "B", report.PerformanceByAP[0].APName, "first seen first")
	assert.Equal(t, "A", report.PerformanceByAP[1].APName)
	assert.Equal(t, unknownGroup, report.PerformanceByAP[2].APName)

	assert.Equal(t, "50.0", report.PerformanceByAP[0].ConversionRate)
	assert.Equal(t, 1, report.PerformanceByAP[0].Pending, "unrecognized status counts as pending")
	assert.Equal(t, "33.3", report.PerformanceByAP[1].ConversionRate)
	assert.Equal(t, "0.0", report.PerformanceByAP[2].ConversionRate)

	// (50.0 + 33.3 + 0.0) / 3
	assert.Equal(t, "27.8", report.TeamStats.AverageConversionRate)
}

func TestAggregatePerformance_Empty(t *testing.T) {
	report := AggregatePerformance(nil, perfNow)

	assert.Empty(t, report.PerformanceByAP)
	assert.NotNil(t, report.PerformanceByAP)
	assert.Equal(t, "0.0", report.TeamStats.AverageConversionRate)
	assert.Equal(t, "0.00", report.TeamStats.TotalTeamANP.StringFixed(2))
}

// ============================================================================
// CACHING
// ============================================================================

func TestPerformanceService_UsesCache(t *testing.T) {
	store := newMemStore()
	store.addSubmission(perfSubmission("A", models.StatusIssued, "250", perfNow))
	cache := &fakeCache{}
	svc := NewPerformanceService(fakeSubmissions{store}, cache)
	svc.now = func() time.Time { return perfNow }

	report, err := svc.GetPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "250.00", report.TeamStats.TotalTeamANP.StringFixed(2))
	assert.Equal(t, 1, cache.sets)

	store.addSubmission(perfSubmission("A", models.StatusIssued, "250", perfNow))
	cached, err := svc.GetPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "250.00", cached.TeamStats.TotalTeamANP.StringFixed(2), "served from cache")
	assert.Equal(t, 1, cache.sets)
}

func TestPerformanceService_CacheErrorFallsBack(t *testing.T) {
	store := newMemStore()
	store.addSubmission(perfSubmission("A", models.StatusIssued, "250", perfNow))
	svc := NewPerformanceService(fakeSubmissions{store}, &fakeCache{getErr: errors.New("redis down")})

	report, err := svc.GetPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.TeamStats.TotalIssued)
}

func TestPerformanceService_WithoutCache(t *testing.T) {
	store := newMemStore()
	svc := NewPerformanceService(fakeSubmissions{store}, nil)

	report, err := svc.GetPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.TeamStats.TotalSubmissions)
}
