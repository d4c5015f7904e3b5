package internal

import (
	"net/http"

	"leadtrack/internal/controllers"
	"leadtrack/internal/providers"
	"leadtrack/internal/structures"
)

func InitRoutes(
	trackController *controllers.TrackController,
	checkController *controllers.CheckController,
	statsController *controllers.StatsController,
	mappingController *controllers.MappingController,
	checkIPController *controllers.CheckIPController,
	conf *structures.Config,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/track", http.HandlerFunc(trackController.Track))
	routers.Get("/check", http.HandlerFunc(checkController.Check))
	routers.Get("/api/stats", http.HandlerFunc(statsController.GetStats))
	routers.Get("/api/mappings", http.HandlerFunc(mappingController.ListAppMappings))
	routers.Post("/api/mapping", http.HandlerFunc(mappingController.UpsertAppMapping))
	routers.Get("/api/pixel-tokens", http.HandlerFunc(mappingController.ListPixelTokens))
	routers.Post("/api/pixel-token", http.HandlerFunc(mappingController.UpsertPixelToken))
	routers.Get("/api/check-ip", http.HandlerFunc(checkIPController.CheckIP))
	return routers
}
