package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/y-exe/ymkw-top/internal/models"
	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/structures"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockStatsClient implements upstream.StatsClientInterface with
// injectable behavior and per-endpoint call counting.
type MockStatsClient struct {
	mu             sync.Mutex
	Calls          map[string]int
	HistoryTargets []string
	SearchQueries  []string

	RankingFn             func(ctx context.Context, scope structures.Scope) ([]models.RankingEntry, error)
	HistoryFn             func(ctx context.Context, scope structures.Scope, targetID string) (*models.TrendSeries, error)
	HeatmapFn             func(ctx context.Context, scope structures.Scope) ([]models.HeatmapCell, error)
	AnalysisFn            func(ctx context.Context, scope structures.Scope, userID string) (*models.AnalysisSummary, error)
	ChannelDistributionFn func(ctx context.Context, scope structures.Scope) ([]models.ChannelShare, error)
	SnapshotInfoFn        func(ctx context.Context, snapshotID int) (*models.Snapshot, error)
	SnapshotsFn           func(ctx context.Context) ([]models.Snapshot, error)
	ChannelsFn            func(ctx context.Context) ([]models.Channel, error)
	SearchUsersFn         func(ctx context.Context, query string) ([]models.UserSummary, error)
}

func (m *MockStatsClient) count(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[endpoint]++
}

// CallCount returns how often one endpoint was hit.
func (m *MockStatsClient) CallCount(endpoint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[endpoint]
}

func (m *MockStatsClient) Ranking(ctx context.Context, scope structures.Scope) ([]models.RankingEntry, error) {
	m.count("ranking")
	if m.RankingFn != nil {
		return m.RankingFn(ctx, scope)
	}
	return nil, nil
}

func (m *MockStatsClient) History(ctx context.Context, scope structures.Scope, targetID string) (*models.TrendSeries, error) {
	m.count("history")
	m.mu.Lock()
	m.HistoryTargets = append(m.HistoryTargets, targetID)
	m.mu.Unlock()
	if m.HistoryFn != nil {
		return m.HistoryFn(ctx, scope, targetID)
	}
	return &models.TrendSeries{}, nil
}

func (m *MockStatsClient) Heatmap(ctx context.Context, scope structures.Scope) ([]models.HeatmapCell, error) {
	m.count("heatmap")
	if m.HeatmapFn != nil {
		return m.HeatmapFn(ctx, scope)
	}
	return nil, nil
}

func (m *MockStatsClient) Analysis(ctx context.Context, scope structures.Scope, userID string) (*models.AnalysisSummary, error) {
	if userID == "" {
		m.count("analysis")
	} else {
		m.count("analysis_personal")
	}
	if m.AnalysisFn != nil {
		return m.AnalysisFn(ctx, scope, userID)
	}
	return &models.AnalysisSummary{}, nil
}

func (m *MockStatsClient) ChannelDistribution(ctx context.Context, scope structures.Scope) ([]models.ChannelShare, error) {
	m.count("channels_distribution")
	if m.ChannelDistributionFn != nil {
		return m.ChannelDistributionFn(ctx, scope)
	}
	return nil, nil
}

func (m *MockStatsClient) SnapshotInfo(ctx context.Context, snapshotID int) (*models.Snapshot, error) {
	m.count("snapshot_info")
	if m.SnapshotInfoFn != nil {
		return m.SnapshotInfoFn(ctx, snapshotID)
	}
	return &models.Snapshot{SnapshotID: snapshotID, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

func (m *MockStatsClient) Snapshots(ctx context.Context) ([]models.Snapshot, error) {
	m.count("snapshots")
	if m.SnapshotsFn != nil {
		return m.SnapshotsFn(ctx)
	}
	return nil, nil
}

func (m *MockStatsClient) Channels(ctx context.Context) ([]models.Channel, error) {
	m.count("channels")
	if m.ChannelsFn != nil {
		return m.ChannelsFn(ctx)
	}
	return nil, nil
}

func (m *MockStatsClient) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	m.count("users_search")
	m.mu.Lock()
	m.SearchQueries = append(m.SearchQueries, query)
	m.mu.Unlock()
	if m.SearchUsersFn != nil {
		return m.SearchUsersFn(ctx, query)
	}
	return nil, nil
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockMetrics implements providers.MetricsProviderInterface and counts
// activation results.
type MockMetrics struct {
	mu          sync.Mutex
	Activations map[string]int
}

func (m *MockMetrics) IncActivations(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Activations == nil {
		m.Activations = make(map[string]int)
	}
	m.Activations[result]++
}

func (m *MockMetrics) ActivationCount(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Activations[result]
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                  {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration)  {}
func (m *MockMetrics) IncCacheHits()                                     {}
func (m *MockMetrics) IncCacheMisses()                                   {}
func (m *MockMetrics) IncUpstreamRequests(_, _ string)                   {}
func (m *MockMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveActivationDuration(_ time.Duration)         {}
