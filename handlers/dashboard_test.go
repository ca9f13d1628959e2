package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"frtutracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats models.DashboardStats
	decodeData(t, resp, &stats)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Online)

	resp = env.do(t, http.MethodGet, "/api/dashboard/stats?start=2024-01-01&end=2024-12-31", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &stats)
	assert.Equal(t, 1, stats.Total)

	resp = env.do(t, http.MethodGet, "/api/dashboard/stats?start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardRecentActivities(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		resp := env.do(t, http.MethodPost, "/api/devices/2/test", nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := env.do(t, http.MethodPost, "/api/devices/2/status", models.ChangeStatusRequest{Status: models.FRTUStatusOnline})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/dashboard/activities?limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []models.HistoryLog
	decodeData(t, resp, &logs)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionStatusChange, logs[0].Action)

	resp = env.do(t, http.MethodGet, "/api/dashboard/activities?action="+url.QueryEscape(string(models.ActionTest)), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &logs)
	assert.Len(t, logs, 3)
}
