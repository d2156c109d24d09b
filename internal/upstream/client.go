package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/y-exe/ymkw-top/internal/models"
	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/structures"
)

// StatsClientInterface is the read-only boundary to the remote statistics
// API. All calls are JSON GETs; scope parameters select the calendar-month
// or snapshot variant of each endpoint.
type StatsClientInterface interface {
	Ranking(ctx context.Context, scope structures.Scope) ([]models.RankingEntry, error)
	History(ctx context.Context, scope structures.Scope, targetID string) (*models.TrendSeries, error)
	Heatmap(ctx context.Context, scope structures.Scope) ([]models.HeatmapCell, error)
	Analysis(ctx context.Context, scope structures.Scope, userID string) (*models.AnalysisSummary, error)
	ChannelDistribution(ctx context.Context, scope structures.Scope) ([]models.ChannelShare, error)
	SnapshotInfo(ctx context.Context, snapshotID int) (*models.Snapshot, error)
	Snapshots(ctx context.Context) ([]models.Snapshot, error)
	Channels(ctx context.Context) ([]models.Channel, error)
	SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error)
}

type StatsClient struct {
	baseURL     string
	httpClient  *http.Client
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	compression bool
}

func NewStatsClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) StatsClientInterface {
	return &StatsClient{
		baseURL:     strings.TrimRight(conf.Upstream.BaseURL, "/"),
		httpClient:  &http.Client{Timeout: conf.Upstream.Timeout},
		logger:      logger,
		metrics:     metrics,
		compression: conf.Upstream.Compression,
	}
}

func (c *StatsClient) Ranking(ctx context.Context, scope structures.Scope) ([]models.RankingEntry, error) {
	path := fmt.Sprintf("/api/ranking/monthly/%d/%d", scope.Year, scope.Month)
	if scope.IsSnapshot() {
		path = "/api/ranking/total"
	}
	var ranking []models.RankingEntry
	if err := c.getJSON(ctx, "ranking", path, scopeQuery(scope), &ranking); err != nil {
		return nil, err
	}
	return ranking, nil
}

func (c *StatsClient) History(ctx context.Context, scope structures.Scope, targetID string) (*models.TrendSeries, error) {
	q := scopeQuery(scope)
	if targetID != "" {
		q.Set("user_id", targetID)
	}
	var series models.TrendSeries
	if err := c.getJSON(ctx, "history", statsPath("history", scope), q, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func (c *StatsClient) Heatmap(ctx context.Context, scope structures.Scope) ([]models.HeatmapCell, error) {
	var cells []models.HeatmapCell
	if err := c.getJSON(ctx, "heatmap", statsPath("heatmap", scope), scopeQuery(scope), &cells); err != nil {
		return nil, err
	}
	return cells, nil
}

func (c *StatsClient) Analysis(ctx context.Context, scope structures.Scope, userID string) (*models.AnalysisSummary, error) {
	q := scopeQuery(scope)
	if userID != "" {
		q.Set("user_id", userID)
	}
	var summary models.AnalysisSummary
	if err := c.getJSON(ctx, "analysis", statsPath("analysis", scope), q, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ChannelDistribution is only meaningful at the all-channels level; the
// channel filter is never forwarded.
func (c *StatsClient) ChannelDistribution(ctx context.Context, scope structures.Scope) ([]models.ChannelShare, error) {
	q := scopeQuery(scope)
	q.Del("channel_id")
	var shares []models.ChannelShare
	if err := c.getJSON(ctx, "channels_distribution", statsPath("channels_distribution", scope), q, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

func (c *StatsClient) SnapshotInfo(ctx context.Context, snapshotID int) (*models.Snapshot, error) {
	var snapshot models.Snapshot
	path := fmt.Sprintf("/api/snapshots/%d", snapshotID)
	if err := c.getJSON(ctx, "snapshot_info", path, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *StatsClient) Snapshots(ctx context.Context) ([]models.Snapshot, error) {
	var snapshots []models.Snapshot
	if err := c.getJSON(ctx, "snapshots", "/api/snapshots", nil, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (c *StatsClient) Channels(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := c.getJSON(ctx, "channels", "/api/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// SearchUsers tolerates partial queries; an empty query yields no results
// without touching the network.
func (c *StatsClient) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("q", query)
	var users []models.UserSummary
	if err := c.getJSON(ctx, "users_search", "/api/users/search", q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// statsPath selects the monthly or snapshot variant of a /api/stats
// endpoint.
func statsPath(name string, scope structures.Scope) string {
	if scope.IsSnapshot() {
		return fmt.Sprintf("/api/stats/%s/total", name)
	}
	return fmt.Sprintf("/api/stats/%s/%d/%d", name, scope.Year, scope.Month)
}

func scopeQuery(scope structures.Scope) url.Values {
	q := url.Values{}
	if scope.IsSnapshot() && scope.EndDate != "" {
		q.Set("end_date", scope.EndDate)
	}
	if scope.ChannelID != "" {
		q.Set("channel_id", scope.ChannelID)
	}
	return q
}

func (c *StatsClient) getJSON(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	start := time.Now()
	err := c.doGet(ctx, path, query, out)
	c.metrics.ObserveUpstreamDuration(endpoint, time.Since(start))

	if err != nil {
		var kind ErrorKind
		var status int
		if ue, ok := err.(*Error); ok {
			kind, status = ue.Kind, ue.Status
			ue.Endpoint = endpoint
		}
		c.metrics.IncUpstreamRequests(endpoint, kind.String())
		c.logger.Warnf(providers.TypeFetch, "GET %s failed: kind=%s status=%d err=%v", path, kind, status, err)
		return err
	}

	c.metrics.IncUpstreamRequests(endpoint, "ok")
	c.logger.Debugf(providers.TypeFetch, "GET %s ok in %s", path, time.Since(start))
	return nil
}

func (c *StatsClient) doGet(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.compression {
		req.Header.Set("Accept-Encoding", "zstd, gzip")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &Error{Status: resp.StatusCode, Kind: statusKind(resp.StatusCode)}
	}

	body, err := decodeBody(resp)
	if err != nil {
		return &Error{Status: resp.StatusCode, Kind: KindDecode, Err: err}
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Kind: KindDecode, Err: err}
	}
	return nil
}
