package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerScoreboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/scoreboard", handler.GetScoreboard)

	mux.HandleFunc("POST /v1/match/points/{team}", handler.AddPoint)
	mux.HandleFunc("DELETE /v1/match/points/{team}", handler.SubtractPoint)
	mux.HandleFunc("POST /v1/match/service/toggle", handler.ToggleService)
	mux.HandleFunc("POST /v1/match/timeouts/{team}", handler.UseTimeout)
	mux.HandleFunc("POST /v1/match/sides/toggle", handler.ToggleSides)
	mux.HandleFunc("POST /v1/match/undo", handler.Undo)
	mux.HandleFunc("POST /v1/match/reset", handler.ResetMatch)
	mux.HandleFunc("PUT /v1/match/settings", handler.ApplySettings)

	mux.HandleFunc("POST /v1/roster/generate", handler.GenerateTeams)
	mux.HandleFunc("POST /v1/roster/players/move", handler.MovePlayer)
	mux.HandleFunc("DELETE /v1/roster/players/{playerID}", handler.RemovePlayer)
	mux.HandleFunc("POST /v1/roster/players/{playerID}/fixed/toggle", handler.TogglePlayerFixed)
	mux.HandleFunc("PUT /v1/roster/teams/{teamID}/name", handler.UpdateTeamName)

	mux.HandleFunc("GET /v1/rotation/preview", handler.PreviewRotation)
	mux.HandleFunc("POST /v1/rotation/commit", handler.CommitRotation)
}
