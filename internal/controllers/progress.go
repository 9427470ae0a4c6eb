package controllers

import (
	"net/http"
	"studytime/internal/models"
	"studytime/internal/services"

	"github.com/spf13/cast"
)

func (ac *ApiController) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		ac.writeError(w, r, models.Validationf("start and end dates are required"))
		return
	}
	rows, err := ac.stats.GetDailyStats(r.Context(), userID, start, end)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, rows)
}

func (ac *ApiController) GetAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	list, err := ac.achievements.GetAchievements(r.Context(), userID)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, list)
}

func (ac *ApiController) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	board, err := ac.leaderboard.GetLeaderboard(r.Context(), userID, r.URL.Query().Get("timeframe"))
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, board)
}

func (ac *ApiController) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	limit := services.DefaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = cast.ToIntE(raw)
		if err != nil {
			ac.writeError(w, r, models.Validationf("limit must be an integer"))
			return
		}
	}
	list, err := ac.notifications.ListNotifications(r.Context(), userID, limit)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, list)
}

func (ac *ApiController) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	n, err := ac.notifications.MarkNotificationRead(r.Context(), userID, id)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, n)
}
