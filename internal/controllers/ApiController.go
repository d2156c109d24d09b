package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/y-exe/ymkw-top/internal/dashboard"
	"github.com/y-exe/ymkw-top/internal/models"
	"github.com/y-exe/ymkw-top/internal/providers"
	"github.com/y-exe/ymkw-top/internal/services"
	"github.com/y-exe/ymkw-top/internal/structures"
)

// identityCookie carries the requester id chosen in the login selector.
const identityCookie = "ymkw_user"

type ApiController struct {
	logger  providers.Logger
	service services.DashboardServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.DashboardServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func requesterID(r *http.Request) string {
	if c, err := r.Cookie(identityCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if uid := r.URL.Query().Get("user_id"); uid != "" {
		return uid
	}
	return structures.GuestID
}

func scopeFromRequest(r *http.Request) (structures.Scope, error) {
	q := r.URL.Query()
	scope := structures.Scope{
		ChannelID: q.Get("channel_id"),
		Requester: structures.Session{UserID: requesterID(r)},
	}

	if sid := q.Get("snapshot_id"); sid != "" {
		id, err := strconv.Atoi(sid)
		if err != nil || id <= 0 {
			return scope, fmt.Errorf("invalid snapshot_id %q", sid)
		}
		scope.SnapshotID = id
		return scope, nil
	}

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		return scope, fmt.Errorf("invalid year %q", q.Get("year"))
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil || month < 1 || month > 12 {
		return scope, fmt.Errorf("invalid month %q", q.Get("month"))
	}
	scope.Year, scope.Month = year, month
	return scope, nil
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeUpstreamError(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// writeUpstreamError maps the engine's failure signal onto the gateway
// response. The engine only signals; presentation is decided here.
func (ac *ApiController) writeUpstreamError(w http.ResponseWriter, err error) {
	if dashboard.IsOverload(err) {
		http.Error(w, "Statistics temporarily unavailable, try again later", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, "Bad Gateway", http.StatusBadGateway)
}

func (ac *ApiController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromRequest(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	focusedID := r.URL.Query().Get("focus_id")

	cacheKey := fmt.Sprintf("dash:%d-%d:%d:%s:%s:%s",
		scope.Year, scope.Month, scope.SnapshotID, scope.ChannelID, scope.Requester.UserID, focusedID)
	ac.serveFromCacheOrCompute(w, cacheKey, func() (any, error) {
		return ac.service.Dashboard(r.Context(), scope, focusedID)
	})
}

func (ac *ApiController) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "snapshots", func() (any, error) {
		return ac.service.Snapshots(r.Context())
	})
}

func (ac *ApiController) GetChannels(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "channels", func() (any, error) {
		return ac.service.Channels(r.Context())
	})
}

func (ac *ApiController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	ac.serveFromCacheOrCompute(w, "search:"+query, func() (any, error) {
		users, err := ac.service.SearchUsers(r.Context(), query)
		if err != nil {
			return nil, err
		}
		if users == nil {
			users = []models.UserSummary{} // never marshal null for an empty hit list
		}
		return users, nil
	})
}
