package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"frtutracker/logger"
	"frtutracker/models"
	"frtutracker/services"
	"frtutracker/utils"
)

// StatsProvider computes dashboard counts.
type StatsProvider interface {
	Stats(ctx context.Context, r services.DateRange) (models.DashboardStats, error)
}

// DashboardHandler serves the dashboard widgets.
type DashboardHandler struct {
	stats StatsProvider
	logs  LogReader
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(stats StatsProvider, logs LogReader) *DashboardHandler {
	return &DashboardHandler{stats: stats, logs: logs}
}

// Stats dashboard counts
// @Summary Dashboard statistics
// @Description Device counts by status and log volume, optionally bounded by date
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param start query string false "YYYY-MM-DD or RFC3339"
// @Param end query string false "YYYY-MM-DD or RFC3339"
// @Success 200 {object} models.APIResponse{data=models.DashboardStats}
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start, err := dateParam(r, "start")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid start date", err))
		return
	}
	end, err := dateParam(r, "end")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid end date", err))
		return
	}
	rng := services.DateRange{Start: start, End: end}

	stats, err := h.stats.Stats(r.Context(), rng)
	if err != nil {
		logger.Error("Failed to compute dashboard stats: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to compute dashboard stats", err))
		return
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Dashboard stats retrieved", stats))
}

// RecentActivities latest history entries
// @Summary Recent activities
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param action query string false "Action label filter"
// @Param limit query int false "1-100, default 20"
// @Success 200 {object} models.APIResponse{data=[]models.HistoryLog}
// @Failure 500 {object} models.APIResponse
// @Router /api/dashboard/activities [get]
func (h *DashboardHandler) RecentActivities(w http.ResponseWriter, r *http.Request) {
	qAction := models.ActionType(r.URL.Query().Get("action"))
	qLimit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			qLimit = n
		}
	}

	logs, err := h.logs.Logs(r.Context())
	if err != nil {
		logger.Error("Failed to load history log: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load history log", err))
		return
	}

	recent := make([]models.HistoryLog, 0, qLimit)
	for _, l := range logs {
		if len(recent) == qLimit {
			break
		}
		if qAction != "" && l.Action != qAction {
			continue
		}
		recent = append(recent, l)
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Recent activities retrieved", recent))
}

func dateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	return utils.ParseUserDate(v)
}
