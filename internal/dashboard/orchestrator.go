package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/y-exe/ymkw-top/internal/models"
	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/structures"
	"github.com/y-exe/ymkw-top/internal/upstream"
)

// Orchestrator runs one fetch-and-merge cycle (an activation) per scope.
// All sources of an activation are fetched concurrently; the merged view
// model is published atomically, and only the most recently started
// activation may publish. Superseded activations are discarded silently.
type Orchestrator struct {
	client  upstream.StatsClientInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	mu         sync.Mutex
	generation uint64
	ready      chan struct{}
	scope      structures.Scope
	targetID   string
	vm         *models.ViewModel
	err        error
}

func NewOrchestrator(client upstream.StatsClientInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Orchestrator {
	return &Orchestrator{
		client:  client,
		logger:  logger,
		metrics: metrics,
		ready:   make(chan struct{}),
	}
}

// Activate starts a new activation for scope. Readiness is reset first so
// observers can never read a stale result mid-flight. targetID is the
// history-inclusion id (focused user, else requester, else empty).
func (o *Orchestrator) Activate(ctx context.Context, scope structures.Scope, targetID string) {
	o.mu.Lock()
	o.generation++
	gen := o.generation
	o.ready = make(chan struct{})
	o.scope = scope
	o.targetID = targetID
	o.vm, o.err = nil, nil
	ready := o.ready
	o.mu.Unlock()

	go o.run(ctx, gen, ready, scope, targetID)
}

// RefreshTrend starts an activation that re-issues only the history
// request, carrying a new inclusion target. Ranking, heatmap and the
// summaries of the previous result are kept as-is; the history source is
// the only one accepting a target-inclusion parameter.
func (o *Orchestrator) RefreshTrend(ctx context.Context, targetID string) {
	o.mu.Lock()
	prev := o.vm
	scope := o.scope

	if prev == nil {
		// Nothing published yet; fall back to a full activation.
		o.mu.Unlock()
		o.Activate(ctx, scope, targetID)
		return
	}

	// Snapshot and generation claim share one critical section: an
	// activation landing in between could otherwise be superseded by a
	// refresh carrying its predecessor's scope.
	o.generation++
	gen := o.generation
	o.ready = make(chan struct{})
	o.targetID = targetID
	o.vm, o.err = nil, nil
	ready := o.ready
	o.mu.Unlock()

	go func() {
		start := time.Now()
		trend, err := o.client.History(ctx, scope, targetID)
		if err != nil {
			o.finish(gen, ready, scope, nil, &FatalError{Source: "history", Err: err}, start)
			return
		}
		o.finish(gen, ready, scope, prev.WithTrend(trend), nil, start)
	}()
}

// Ready returns the readiness channel of the current activation. It is
// closed exactly once, after the view model or the fatal error is
// published. Channels of superseded activations never close.
func (o *Orchestrator) Ready() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ready
}

// Scope returns the scope of the current activation.
func (o *Orchestrator) Scope() structures.Scope {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scope
}

// Result returns the published outcome of the current activation. Both
// values are nil while the activation is still in flight.
func (o *Orchestrator) Result() (*models.ViewModel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.vm, o.err
}

// Wait blocks until the current activation publishes or ctx ends.
func (o *Orchestrator) Wait(ctx context.Context) (*models.ViewModel, error) {
	select {
	case <-o.Ready():
		return o.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Orchestrator) run(ctx context.Context, gen uint64, ready chan struct{}, scope structures.Scope, targetID string) {
	start := time.Now()
	vm, resolved, err := o.fetch(ctx, scope, targetID)
	o.finish(gen, ready, resolved, vm, err, start)
}

func (o *Orchestrator) fetch(ctx context.Context, scope structures.Scope, targetID string) (*models.ViewModel, structures.Scope, error) {
	vm := &models.ViewModel{ChannelShares: []models.ChannelShare{}}

	// In snapshot mode every other endpoint's period parameter derives
	// from the snapshot's creation time, so this fetch is a hard
	// prerequisite. The calendar-month variant has no such edge.
	if scope.IsSnapshot() && scope.EndDate == "" {
		info, err := o.client.SnapshotInfo(ctx, scope.SnapshotID)
		if err != nil {
			return nil, scope, &FatalError{Source: "snapshot_info", Err: err}
		}
		scope = scope.WithEndDate(info.CreatedAt.UTC().Format(time.RFC3339))
		vm.Snapshot = info
	}

	g, gctx := errgroup.WithContext(ctx)

	// Required sources. Any failure aborts the whole activation: partial
	// statistics are worse than no statistics.
	g.Go(func() error {
		ranking, err := o.client.Ranking(gctx, scope)
		if err != nil {
			return &FatalError{Source: "ranking", Err: err}
		}
		vm.Ranking = ranking
		return nil
	})
	g.Go(func() error {
		trend, err := o.client.History(gctx, scope, targetID)
		if err != nil {
			return &FatalError{Source: "history", Err: err}
		}
		vm.Trend = trend
		return nil
	})
	g.Go(func() error {
		heatmap, err := o.client.Heatmap(gctx, scope)
		if err != nil {
			return &FatalError{Source: "heatmap", Err: err}
		}
		vm.Heatmap = heatmap
		return nil
	})
	g.Go(func() error {
		overall, err := o.client.Analysis(gctx, scope, "")
		if err != nil {
			return &FatalError{Source: "analysis", Err: err}
		}
		vm.Overall = overall
		return nil
	})

	// Optional sources. A failure leaves an explicit absent value and the
	// activation still succeeds.
	if !scope.Requester.IsGuest() {
		g.Go(func() error {
			personal, err := o.client.Analysis(gctx, scope, scope.Requester.UserID)
			if err != nil {
				o.logger.Debugf(providers.TypeFetch, "personal analysis unavailable: %v", err)
				return nil
			}
			vm.Personal = personal
			return nil
		})
	}
	if scope.ChannelID == "" {
		g.Go(func() error {
			shares, err := o.client.ChannelDistribution(gctx, scope)
			if err != nil {
				o.logger.Debugf(providers.TypeFetch, "channel distribution unavailable: %v", err)
				return nil
			}
			vm.ChannelShares = shares
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, scope, err
	}

	vm.MyRank = models.ResolveRank(vm.Ranking, scope.Requester.UserID)
	vm.TopCount = models.TopCount(vm.Ranking)
	return vm, scope, nil
}

// finish publishes the activation outcome, unless a newer activation has
// started in the meantime. The readiness channel closes exactly once.
func (o *Orchestrator) finish(gen uint64, ready chan struct{}, scope structures.Scope, vm *models.ViewModel, err error, start time.Time) {
	o.metrics.ObserveActivationDuration(time.Since(start))

	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		o.metrics.IncActivations("stale")
		o.logger.Debugf(providers.TypeFetch, "discarding stale activation %d (current %d)", gen, o.generation)
		return
	}
	o.scope = scope
	o.vm, o.err = vm, err
	o.mu.Unlock()
	close(ready)

	if err != nil {
		o.metrics.IncActivations("fatal")
		o.logger.Errorf(providers.TypeFetch, "activation %d failed: %v", gen, err)
		return
	}
	o.metrics.IncActivations("ok")
	o.logger.Infof(providers.TypeFetch, "activation %d published in %s", gen, time.Since(start))
}
