package internal

import (
	"net/http"

	"github.com/y-exe/ymkw-top/internal/controllers"
	"github.com/y-exe/ymkw-top/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/dashboard", http.HandlerFunc(apiController.GetDashboard))
	routers.Get("/api/snapshots", http.HandlerFunc(apiController.GetSnapshots))
	routers.Get("/api/channels", http.HandlerFunc(apiController.GetChannels))
	routers.Get("/api/users/search", http.HandlerFunc(apiController.SearchUsers))
	return routers
}
