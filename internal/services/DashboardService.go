package services

import (
	"context"

	"github.com/y-exe/ymkw-top/internal/dashboard"
	"github.com/y-exe/ymkw-top/internal/models"
	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/structures"
	"github.com/y-exe/ymkw-top/internal/upstream"
)

type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, scope structures.Scope, focusedID string) (*models.ViewModel, error)
	Snapshots(ctx context.Context) ([]models.Snapshot, error)
	Channels(ctx context.Context) ([]models.Channel, error)
	SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error)
	NewSession(scope structures.Scope) *dashboard.PageSession
}

type DashboardService struct {
	conf    *structures.Config
	client  upstream.StatsClientInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewDashboardService(conf *structures.Config, client upstream.StatsClientInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) DashboardServiceInterface {
	return &DashboardService{
		conf:    conf,
		client:  client,
		logger:  logger,
		metrics: metrics,
	}
}

// Dashboard runs a single activation for scope and waits for its result.
// Each call owns a fresh orchestrator, so concurrent gateway requests
// never supersede each other.
func (ds *DashboardService) Dashboard(ctx context.Context, scope structures.Scope, focusedID string) (*models.ViewModel, error) {
	orch := dashboard.NewOrchestrator(ds.client, ds.logger, ds.metrics)
	orch.Activate(ctx, scope, dashboard.TargetFor(focusedID, scope.Requester))
	return orch.Wait(ctx)
}

func (ds *DashboardService) Snapshots(ctx context.Context) ([]models.Snapshot, error) {
	return ds.client.Snapshots(ctx)
}

func (ds *DashboardService) Channels(ctx context.Context) ([]models.Channel, error) {
	return ds.client.Channels(ctx)
}

func (ds *DashboardService) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	return ds.client.SearchUsers(ctx, query)
}

// NewSession builds the interactive engine for one page load: the
// orchestrator plus the debounced focus-search controller on top.
func (ds *DashboardService) NewSession(scope structures.Scope) *dashboard.PageSession {
	return dashboard.NewPageSession(ds.client, ds.logger, ds.metrics, scope, ds.conf.Dashboard.DebounceDelay)
}
