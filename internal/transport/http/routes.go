package http

import (
	"net/http"

	"clc-quiz-service/internal/app"
)

// NewMux wires the service routes.
func NewMux(service *app.GameService, ws *WSHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.Handle("/leaderboard", NewLeaderboardHandler(service))
	return mux
}
