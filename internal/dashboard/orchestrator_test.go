package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/y-exe/ymkw-top/internal/models"
	"github.com/y-exe/ymkw-top/internal/structures"
	"github.com/y-exe/ymkw-top/internal/testutil"
	"github.com/y-exe/ymkw-top/internal/upstream"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func monthScope(requester string) structures.Scope {
	return structures.Scope{
		Year:      2025,
		Month:     5,
		Requester: structures.Session{UserID: requester},
	}
}

func testRanking() []models.RankingEntry {
	return []models.RankingEntry{
		{UserID: "7", DisplayName: "Alpha", Count: 100},
		{UserID: "42", DisplayName: "Beta", Count: 80},
		{UserID: "9", DisplayName: "Gamma", Count: 80},
	}
}

func newTestOrchestrator(client *testutil.MockStatsClient) (*Orchestrator, *testutil.MockMetrics) {
	metrics := &testutil.MockMetrics{}
	return NewOrchestrator(client, &testutil.MockLogger{}, metrics), metrics
}

func waitFor(t *testing.T, orch *Orchestrator) (*models.ViewModel, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return orch.Wait(ctx)
}

func TestOrchestrator_PublishesMergedViewModel(t *testing.T) {
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, _ structures.Scope) ([]models.RankingEntry, error) {
			return testRanking(), nil
		},
		AnalysisFn: func(_ context.Context, _ structures.Scope, userID string) (*models.AnalysisSummary, error) {
			if userID == "" {
				return &models.AnalysisSummary{Total: 260}, nil
			}
			return &models.AnalysisSummary{Total: 80}, nil
		},
		ChannelDistributionFn: func(_ context.Context, _ structures.Scope) ([]models.ChannelShare, error) {
			return []models.ChannelShare{{Name: "general", Value: 200}}, nil
		},
	}
	orch, metrics := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope("42"), "42")
	vm, err := waitFor(t, orch)
	require.NoError(t, err)
	require.NotNil(t, vm)

	require.NotNil(t, vm.MyRank)
	assert.Equal(t, "42", vm.MyRank.UserID.String())
	assert.Equal(t, 80, vm.MyRank.Count)
	assert.Equal(t, 2, vm.MyRank.Rank)
	assert.Equal(t, 100, vm.TopCount)

	require.NotNil(t, vm.Overall)
	assert.Equal(t, 260, vm.Overall.Total)
	require.NotNil(t, vm.Personal)
	assert.Equal(t, 80, vm.Personal.Total)
	assert.Len(t, vm.ChannelShares, 1)
	assert.Equal(t, 1, metrics.ActivationCount("ok"))
}

func TestOrchestrator_GuestGetsNoPersonalAnalysis(t *testing.T) {
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, _ structures.Scope) ([]models.RankingEntry, error) {
			return testRanking(), nil
		},
	}
	orch, _ := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope(structures.GuestID), "")
	vm, err := waitFor(t, orch)
	require.NoError(t, err)

	assert.Nil(t, vm.Personal)
	assert.Nil(t, vm.MyRank)
	assert.Equal(t, 0, client.CallCount("analysis_personal"))
	assert.Equal(t, 1, client.CallCount("analysis"))
}

func TestOrchestrator_ChannelFilterSkipsDistribution(t *testing.T) {
	client := &testutil.MockStatsClient{}
	orch, _ := newTestOrchestrator(client)

	scope := monthScope(structures.GuestID)
	scope.ChannelID = "555"
	orch.Activate(context.Background(), scope, "")
	vm, err := waitFor(t, orch)
	require.NoError(t, err)

	assert.Equal(t, 0, client.CallCount("channels_distribution"))
	assert.NotNil(t, vm.ChannelShares)
	assert.Empty(t, vm.ChannelShares)
}

func TestOrchestrator_RequiredFailureIsFatal(t *testing.T) {
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, _ structures.Scope) ([]models.RankingEntry, error) {
			return nil, &upstream.Error{Endpoint: "ranking", Status: 500, Kind: upstream.KindOverload}
		},
	}
	orch, metrics := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope("42"), "42")
	vm, err := waitFor(t, orch)

	assert.Nil(t, vm)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.True(t, IsOverload(err))
	assert.Equal(t, 1, metrics.ActivationCount("fatal"))
	assert.Equal(t, 0, metrics.ActivationCount("ok"))
}

func TestOrchestrator_ClientErrorOnRequiredSourceIsFatal(t *testing.T) {
	client := &testutil.MockStatsClient{
		HeatmapFn: func(_ context.Context, _ structures.Scope) ([]models.HeatmapCell, error) {
			return nil, &upstream.Error{Endpoint: "heatmap", Status: 404, Kind: upstream.KindClient}
		},
	}
	orch, _ := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope(structures.GuestID), "")
	vm, err := waitFor(t, orch)

	assert.Nil(t, vm)
	assert.True(t, IsFatal(err))
	assert.False(t, IsOverload(err))
}

func TestOrchestrator_OptionalFailureStillSucceeds(t *testing.T) {
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, _ structures.Scope) ([]models.RankingEntry, error) {
			return testRanking(), nil
		},
		ChannelDistributionFn: func(_ context.Context, _ structures.Scope) ([]models.ChannelShare, error) {
			return nil, &upstream.Error{Endpoint: "channels_distribution", Status: 500, Kind: upstream.KindOverload}
		},
		AnalysisFn: func(_ context.Context, _ structures.Scope, userID string) (*models.AnalysisSummary, error) {
			if userID != "" {
				return nil, &upstream.Error{Endpoint: "analysis", Status: 429, Kind: upstream.KindOverload}
			}
			return &models.AnalysisSummary{Total: 10}, nil
		},
	}
	orch, metrics := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope("42"), "42")
	vm, err := waitFor(t, orch)

	require.NoError(t, err)
	require.NotNil(t, vm)
	assert.Empty(t, vm.ChannelShares)
	assert.NotNil(t, vm.ChannelShares)
	assert.Nil(t, vm.Personal)
	assert.Equal(t, 1, metrics.ActivationCount("ok"))
}

func TestOrchestrator_OnlyLatestActivationPublishes(t *testing.T) {
	release := make(chan struct{})
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, scope structures.Scope) ([]models.RankingEntry, error) {
			if scope.Month == 4 {
				<-release
				return []models.RankingEntry{{UserID: "old", Count: 1}}, nil
			}
			return testRanking(), nil
		},
	}
	orch, metrics := newTestOrchestrator(client)

	// First activation stalls on the ranking fetch.
	stalled := monthScope(structures.GuestID)
	stalled.Month = 4
	orch.Activate(context.Background(), stalled, "")
	// Second one supersedes it and completes immediately.
	orch.Activate(context.Background(), monthScope(structures.GuestID), "")

	vm, err := waitFor(t, orch)
	require.NoError(t, err)
	assert.Equal(t, 100, vm.TopCount)

	// Let the stalled activation finish; its result must be discarded.
	close(release)
	assert.Eventually(t, func() bool {
		return metrics.ActivationCount("stale") == 1
	}, 2*time.Second, 5*time.Millisecond)

	current, err := orch.Result()
	require.NoError(t, err)
	assert.Equal(t, 100, current.TopCount)
}

func TestOrchestrator_ReactivationResetsReadiness(t *testing.T) {
	block := make(chan struct{})
	var calls int32
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, _ structures.Scope) ([]models.RankingEntry, error) {
			if atomic.AddInt32(&calls, 1) > 1 {
				<-block
			}
			return testRanking(), nil
		},
	}
	orch, _ := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope(structures.GuestID), "")
	firstReady := orch.Ready()
	_, err := waitFor(t, orch)
	require.NoError(t, err)

	orch.Activate(context.Background(), monthScope(structures.GuestID), "")
	secondReady := orch.Ready()
	assert.NotEqual(t, firstReady, secondReady)

	// Mid-flight: no stale result is observable.
	vm, err := orch.Result()
	assert.Nil(t, vm)
	assert.NoError(t, err)

	close(block)
	_, err = waitFor(t, orch)
	require.NoError(t, err)
}

func TestOrchestrator_SnapshotInfoIsPrerequisite(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	client := &testutil.MockStatsClient{
		SnapshotInfoFn: func(_ context.Context, snapshotID int) (*models.Snapshot, error) {
			return &models.Snapshot{SnapshotID: snapshotID, CreatedAt: createdAt, Title: "v3"}, nil
		},
		RankingFn: func(_ context.Context, scope structures.Scope) ([]models.RankingEntry, error) {
			// Every period-scoped request must carry the resolved cutoff.
			assert.Equal(t, "2025-06-01T12:00:00Z", scope.EndDate)
			return testRanking(), nil
		},
		HistoryFn: func(_ context.Context, scope structures.Scope, _ string) (*models.TrendSeries, error) {
			assert.Equal(t, "2025-06-01T12:00:00Z", scope.EndDate)
			return &models.TrendSeries{}, nil
		},
	}
	orch, _ := newTestOrchestrator(client)

	scope := structures.Scope{SnapshotID: 3, Requester: structures.Session{UserID: structures.GuestID}}
	orch.Activate(context.Background(), scope, "")
	vm, err := waitFor(t, orch)

	require.NoError(t, err)
	require.NotNil(t, vm.Snapshot)
	assert.Equal(t, "v3", vm.Snapshot.Title)
	assert.Equal(t, 1, client.CallCount("snapshot_info"))
}

func TestOrchestrator_SnapshotInfoFailureIsFatal(t *testing.T) {
	client := &testutil.MockStatsClient{
		SnapshotInfoFn: func(_ context.Context, _ int) (*models.Snapshot, error) {
			return nil, &upstream.Error{Endpoint: "snapshot_info", Status: 404, Kind: upstream.KindClient}
		},
	}
	orch, _ := newTestOrchestrator(client)

	scope := structures.Scope{SnapshotID: 404, Requester: structures.Session{UserID: structures.GuestID}}
	orch.Activate(context.Background(), scope, "")
	vm, err := waitFor(t, orch)

	assert.Nil(t, vm)
	assert.True(t, IsFatal(err))
	// The prerequisite failed; nothing else may have been fetched.
	assert.Equal(t, 0, client.CallCount("ranking"))
}

func TestOrchestrator_RefreshTrendReissuesOnlyHistory(t *testing.T) {
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, _ structures.Scope) ([]models.RankingEntry, error) {
			return testRanking(), nil
		},
		HistoryFn: func(_ context.Context, _ structures.Scope, targetID string) (*models.TrendSeries, error) {
			return &models.TrendSeries{TopUserID: "7", Users: map[string]models.TrendUser{targetID: {}}}, nil
		},
	}
	orch, _ := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope(structures.GuestID), "")
	first, err := waitFor(t, orch)
	require.NoError(t, err)

	orch.RefreshTrend(context.Background(), "99")
	second, err := waitFor(t, orch)
	require.NoError(t, err)

	assert.Equal(t, 1, client.CallCount("ranking"))
	assert.Equal(t, 1, client.CallCount("heatmap"))
	assert.Equal(t, 1, client.CallCount("analysis"))
	assert.Equal(t, 2, client.CallCount("history"))
	assert.Equal(t, []string{"", "99"}, client.HistoryTargets)

	assert.NotSame(t, first, second)
	assert.Contains(t, second.Trend.Users, "99")
	assert.Equal(t, first.Ranking, second.Ranking)
	assert.Equal(t, first.TopCount, second.TopCount)
}

func TestOrchestrator_ActivateSupersedesInFlightTrendRefresh(t *testing.T) {
	release := make(chan struct{})
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, scope structures.Scope) ([]models.RankingEntry, error) {
			if scope.Month == 6 {
				return testRanking(), nil
			}
			return nil, nil
		},
		HistoryFn: func(_ context.Context, _ structures.Scope, targetID string) (*models.TrendSeries, error) {
			if targetID == "99" {
				// The refresh for the old scope stalls in flight.
				<-release
			}
			return &models.TrendSeries{}, nil
		},
	}
	orch, metrics := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope(structures.GuestID), "")
	_, err := waitFor(t, orch)
	require.NoError(t, err)

	orch.RefreshTrend(context.Background(), "99")

	// A scope change lands before the refresh completes; the refresh
	// carries the old scope's view model and must lose.
	next := monthScope(structures.GuestID)
	next.Month = 6
	orch.Activate(context.Background(), next, "")

	vm, err := waitFor(t, orch)
	require.NoError(t, err)
	assert.Equal(t, 100, vm.TopCount)

	close(release)
	assert.Eventually(t, func() bool {
		return metrics.ActivationCount("stale") == 1
	}, 2*time.Second, 5*time.Millisecond)

	current, err := orch.Result()
	require.NoError(t, err)
	assert.Equal(t, 100, current.TopCount)
	assert.Equal(t, next.Month, orch.Scope().Month)
}

func TestOrchestrator_RefreshTrendFailureIsFatal(t *testing.T) {
	var historyCalls int32
	client := &testutil.MockStatsClient{
		RankingFn: func(_ context.Context, _ structures.Scope) ([]models.RankingEntry, error) {
			return testRanking(), nil
		},
		HistoryFn: func(_ context.Context, _ structures.Scope, _ string) (*models.TrendSeries, error) {
			if atomic.AddInt32(&historyCalls, 1) > 1 {
				return nil, &upstream.Error{Endpoint: "history", Status: 503, Kind: upstream.KindOverload}
			}
			return &models.TrendSeries{}, nil
		},
	}
	orch, _ := newTestOrchestrator(client)

	orch.Activate(context.Background(), monthScope(structures.GuestID), "")
	_, err := waitFor(t, orch)
	require.NoError(t, err)

	orch.RefreshTrend(context.Background(), "99")
	vm, err := waitFor(t, orch)
	assert.Nil(t, vm)
	assert.True(t, IsFatal(err))
	assert.True(t, IsOverload(err))
}
