package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicCupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/cup/status", handler.GetCurrentCupStatus)
	mux.HandleFunc("GET /v1/cup/seasons/{seasonID}/status", handler.GetCupStatus)
	mux.HandleFunc("GET /v1/cup/seasons/{seasonID}/standings", handler.GetCupStandings)
	mux.HandleFunc("GET /v1/cup/seasons/{seasonID}/winners", handler.GetCupWinners)
}

func registerInternalCupRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireInternalJobToken(internalJobToken, fn))
	}

	internal("POST /v1/internal/cup/activate", handler.ActivateCup)
	internal("POST /v1/internal/cup/rounds/points", handler.CalculateRoundsCupPoints)
	internal("POST /v1/internal/cup/rounds/{roundID}/points", handler.CalculateRoundCupPoints)
	internal("POST /v1/internal/cup/seasons/{seasonID}/points", handler.CalculateSeasonCupPoints)
	internal("GET /v1/internal/cup/rounds/{roundID}/late-submissions", handler.ListLateSubmissions)
	internal("POST /v1/internal/cup/rounds/{roundID}/late-submissions/process", handler.ProcessLateSubmissions)
	internal("POST /v1/internal/cup/corrections", handler.ApplyCorrections)
	internal("POST /v1/internal/cup/overrides", handler.ApplyManualOverride)
	internal("POST /v1/internal/cup/seasons/{seasonID}/winners", handler.DetermineWinners)
	internal("POST /v1/internal/cup/winners/scan", handler.DetermineEligibleWinners)
}
