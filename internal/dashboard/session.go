package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/structures"
	"github.com/y-exe/ymkw-top/internal/upstream"
)

// PageSession owns the in-memory view state of one dashboard page load:
// an orchestrator plus the focus controller layered on top. State lives
// only for the page's lifetime; nothing persists.
type PageSession struct {
	ID    string
	Orch  *Orchestrator
	Focus *FocusController

	scope structures.Scope
}

func NewPageSession(client upstream.StatsClientInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, scope structures.Scope, debounce time.Duration) *PageSession {
	orch := NewOrchestrator(client, logger, metrics)
	return &PageSession{
		ID:    uuid.NewString(),
		Orch:  orch,
		Focus: NewFocusController(client, orch, logger, scope.Requester, debounce),
		scope: scope,
	}
}

// Open starts the first activation for the session's scope.
func (s *PageSession) Open(ctx context.Context) {
	s.Orch.Activate(ctx, s.scope, s.Focus.TargetID())
}

// SetScope replaces the scope wholesale and starts a new activation. Any
// in-flight activation for the old scope will be discarded on completion.
func (s *PageSession) SetScope(ctx context.Context, scope structures.Scope) {
	s.scope = scope
	s.Orch.Activate(ctx, scope, s.Focus.TargetID())
}

func (s *PageSession) Scope() structures.Scope {
	return s.scope
}
