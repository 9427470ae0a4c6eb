package controllers

import (
	"fmt"
	"net/http"
	"studytime/internal/models"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	store     models.Store
	startTime time.Time
}

type healthResponse struct {
	Status         string         `json:"status"`
	Uptime         string         `json:"uptime"`
	UptimeSeconds  float64        `json:"uptime_seconds"`
	ActiveSessions int            `json:"active_sessions"`
	Records        map[string]int `json:"records"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	status, code := "ok", http.StatusOK
	counts, err := hc.store.Counts(r.Context())
	if err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         status,
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		ActiveSessions: counts["active_sessions"],
		Records:        counts,
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store models.Store) *HealthController {
	return &HealthController{
		store:     store,
		startTime: time.Now(),
	}
}
