package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/y-exe/ymkw-top/internal/models"
	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/structures"
	"github.com/y-exe/ymkw-top/internal/upstream"
)

// DefaultDebounce is the search-as-you-type settle delay.
const DefaultDebounce = 300 * time.Millisecond

// FocusController lets the viewer search an arbitrary user and pull their
// line into the trend chart even outside the default top-N, without
// touching the primary ranking display. Search queries are debounced and
// tagged with a sequence number; a response is applied only when its tag
// is still the highest issued one, so out-of-order completions can never
// surface stale results.
type FocusController struct {
	client   upstream.StatsClientInterface
	orch     *Orchestrator
	logger   providers.Logger
	session  structures.Session
	debounce time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	searchSeq uint64
	results   []models.UserSummary
	focusedID string
}

func NewFocusController(client upstream.StatsClientInterface, orch *Orchestrator, logger providers.Logger, session structures.Session, debounce time.Duration) *FocusController {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FocusController{
		client:   client,
		orch:     orch,
		logger:   logger,
		session:  session,
		debounce: debounce,
	}
}

// SetQuery registers one keystroke. A pending debounce timer is always
// replaced, never queued, so at most one search fires per settled query.
// An empty query clears results immediately without a request.
func (f *FocusController) SetQuery(ctx context.Context, query string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.searchSeq++

	query = strings.TrimSpace(query)
	if query == "" {
		f.results = nil
		return
	}

	tag := f.searchSeq
	f.timer = time.AfterFunc(f.debounce, func() {
		f.runSearch(ctx, query, tag)
	})
}

func (f *FocusController) runSearch(ctx context.Context, query string, tag uint64) {
	results, err := f.client.SearchUsers(ctx, query)

	f.mu.Lock()
	defer f.mu.Unlock()
	if tag != f.searchSeq {
		f.logger.Debugf(providers.TypeFetch, "discarding stale search %d for %q", tag, query)
		return
	}
	if err != nil {
		f.logger.Warnf(providers.TypeFetch, "user search %q failed: %v", query, err)
		f.results = nil
		return
	}
	f.results = results
}

// Results returns the hits of the most recent settled search.
func (f *FocusController) Results() []models.UserSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.UserSummary(nil), f.results...)
}

// Select focuses a search hit: the query and result list are cleared and
// only the trend request is re-issued, with the focused id as inclusion
// target. Ranking, heatmap and summaries are left untouched.
func (f *FocusController) Select(ctx context.Context, userID string) {
	f.mu.Lock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.searchSeq++
	f.results = nil
	f.focusedID = userID
	target := f.targetLocked()
	f.mu.Unlock()

	f.orch.RefreshTrend(ctx, target)
}

// Clear resets the focus; the inclusion target reverts to the requester.
func (f *FocusController) Clear(ctx context.Context) {
	f.mu.Lock()
	if f.focusedID == "" {
		f.mu.Unlock()
		return
	}
	f.focusedID = ""
	target := f.targetLocked()
	f.mu.Unlock()

	f.orch.RefreshTrend(ctx, target)
}

// FocusedID returns the currently focused user id, empty when none.
func (f *FocusController) FocusedID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focusedID
}

// TargetID is the history-inclusion id: the focused user wins, else the
// identified requester, else nothing.
func (f *FocusController) TargetID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.targetLocked()
}

func (f *FocusController) targetLocked() string {
	return TargetFor(f.focusedID, f.session)
}

// TargetFor resolves the history-inclusion target: focused user first,
// then the identified requester, else none.
func TargetFor(focusedID string, session structures.Session) string {
	if focusedID != "" {
		return focusedID
	}
	if !session.IsGuest() {
		return session.UserID
	}
	return ""
}
