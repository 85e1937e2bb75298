package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerSeasonRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("PUT /v1/seasons/active", handler.SwitchActiveSeason)
	mux.HandleFunc("GET /v1/seasons/{season}", handler.GetSeason)
	mux.HandleFunc("GET /v1/seasons/{season}/roster", handler.GetSeasonRoster)
	mux.HandleFunc("GET /v1/seasons/{season}/stats", handler.GetSeasonStats)
	mux.HandleFunc("GET /v1/seasons/{season}/schedule", handler.GetSeasonSchedule)
	mux.HandleFunc("GET /v1/seasons/{season}/analytics", handler.GetSeasonAnalytics)
	mux.HandleFunc("GET /v1/seasons/{season}/standings", handler.GetSeasonStandings)
}

func registerLiveRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/live", handler.GetLive)
}
