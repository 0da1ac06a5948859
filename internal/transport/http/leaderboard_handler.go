package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clc-quiz-service/internal/app"
)

const maxLeaderboardLimit = 50

// LeaderboardHandler serves GET /leaderboard?limit=N.
type LeaderboardHandler struct {
	service *app.GameService
}

func NewLeaderboardHandler(service *app.GameService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	entries := h.service.Leaderboard(r.Context(), limit)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(entries)
}
