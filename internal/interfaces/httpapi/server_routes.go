package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if handler.docsDisabled {
		return
	}
	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/matches", RequireManager(http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /v1/matches/{matchID}", RequireManager(http.HandlerFunc(handler.GetMatch)))
	mux.Handle("GET /v1/matches/{matchID}/stream", RequireManager(http.HandlerFunc(handler.StreamMatch)))
	mux.Handle("POST /v1/matches/{matchID}/accept", RequireManager(http.HandlerFunc(handler.AcceptMatch)))
	mux.Handle("PUT /v1/matches/{matchID}/lineup", RequireManager(http.HandlerFunc(handler.ConfirmLineup)))
	mux.Handle("PUT /v1/matches/{matchID}/tactic", RequireManager(http.HandlerFunc(handler.SetTactic)))
	mux.Handle("POST /v1/matches/{matchID}/second-half/ready", RequireManager(http.HandlerFunc(handler.ReadySecondHalf)))
	mux.Handle("POST /v1/matches/{matchID}/pause", RequireManager(http.HandlerFunc(handler.RequestPause)))
	mux.Handle("POST /v1/matches/{matchID}/substitutions", RequireManager(http.HandlerFunc(handler.Substitute)))
	mux.Handle("POST /v1/matches/{matchID}/resume/ready", RequireManager(http.HandlerFunc(handler.ReadyResume)))
	mux.Handle("POST /v1/matches/{matchID}/forfeit", RequireManager(http.HandlerFunc(handler.ForfeitMatch)))
	mux.Handle("POST /v1/matches/{matchID}/cancel", RequireManager(http.HandlerFunc(handler.CancelMatch)))
	mux.Handle("POST /v1/matches/{matchID}/spectate", RequireManager(http.HandlerFunc(handler.SpectateMatch)))
}

func registerPracticeRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/practice-matches", RequireManager(http.HandlerFunc(handler.StartPractice)))
	mux.Handle("GET /v1/practice-matches/{matchID}", RequireManager(http.HandlerFunc(handler.GetPractice)))
	mux.Handle("GET /v1/practice-matches/{matchID}/stream", RequireManager(http.HandlerFunc(handler.StreamPractice)))
	mux.Handle("POST /v1/practice-matches/{matchID}/kickoff", RequireManager(http.HandlerFunc(handler.KickoffPractice)))
	mux.Handle("POST /v1/practice-matches/{matchID}/second-half/ready", RequireManager(http.HandlerFunc(handler.ReadyPracticeSecondHalf)))
	mux.Handle("POST /v1/practice-matches/{matchID}/pause", RequireManager(http.HandlerFunc(handler.PausePractice)))
	mux.Handle("POST /v1/practice-matches/{matchID}/substitutions", RequireManager(http.HandlerFunc(handler.SubstitutePractice)))
	mux.Handle("POST /v1/practice-matches/{matchID}/resume/ready", RequireManager(http.HandlerFunc(handler.ResumePractice)))
}

func registerManagerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /v1/managers/me", RequireManager(http.HandlerFunc(handler.GetMyManager)))
	mux.Handle("GET /v1/managers/me/history", RequireManager(http.HandlerFunc(handler.ListMyHistory)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepJob)))
}
