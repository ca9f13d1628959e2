package handlers

import (
	"net/http"
	"testing"

	"frtutracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevicesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	resp := env.do(t, http.MethodGet, "/api/devices", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.token = "garbage"
	resp = env.do(t, http.MethodGet, "/api/devices", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDevicesRejectUnlistedTechnician(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.PutDirectory(t.Context(), []string{"someone else"}))

	resp := env.do(t, http.MethodGet, "/api/devices", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDeviceListAndFilter(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/devices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	var devices []models.FRTU
	decodeData(t, resp, &devices)
	assert.Len(t, devices, 3)

	resp = env.do(t, http.MethodGet, "/api/devices?status=Offline", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, resp, &devices)
	require.Len(t, devices, 1)
	assert.Equal(t, "FRTU-PEA-002", devices[0].SerialNumber)

	resp = env.do(t, http.MethodGet, "/api/devices?status=Lost", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeviceLifecycle(t *testing.T) {
	env := newTestEnv(t)

	device := models.FRTU{
		SerialNumber: "FRTU-NEW-010",
		Substation:   "สถานีไฟฟ้าลำพูน",
		Feeder:       "F03",
		Location:     "หน้าวัด",
		Technician:   testTechnician,
		Status:       models.FRTUStatusOffline,
	}
	resp := env.do(t, http.MethodPost, "/api/devices", device)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.FRTU
	decodeData(t, resp, &created)
	require.NotEmpty(t, created.ID)

	created.Location = "ย้ายแล้ว"
	resp = env.do(t, http.MethodPut, "/api/devices/"+created.ID, created)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/devices/"+created.ID+"/status", models.ChangeStatusRequest{Status: models.FRTUStatusOnline})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/devices/"+created.ID+"/test", models.SignalTestRequest{Note: "ok"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/devices/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.FRTU
	decodeData(t, resp, &got)
	assert.Equal(t, "ย้ายแล้ว", got.Location)
	assert.Equal(t, models.FRTUStatusOnline, got.Status)

	resp = env.do(t, http.MethodDelete, "/api/devices/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/devices/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs []models.HistoryLog
	decodeData(t, resp, &logs)
	require.Len(t, logs, 5)
	assert.Equal(t, models.ActionDelete, logs[0].Action)
	assert.Equal(t, models.ActionCreate, logs[4].Action)
	for _, l := range logs {
		assert.Equal(t, testTechnician, l.OfficerName)
	}
}

func TestDeviceErrors(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/devices", models.FRTU{SerialNumber: "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	dup := models.InitialFRTUs()[0]
	resp = env.do(t, http.MethodPost, "/api/devices", dup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	stranger := models.InitialFRTUs()[0]
	stranger.ID = ""
	stranger.SerialNumber = "FRTU-NEW-011"
	stranger.Technician = "Nobody In Directory"
	resp = env.do(t, http.MethodPost, "/api/devices", stranger)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPut, "/api/devices/1", models.FRTU{
		ID: "1", SerialNumber: "FRTU-PEA-001", Substation: "x", Feeder: "F1", Location: "y",
		Status: models.FRTUStatusOnline, Technician: "Nobody In Directory",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/devices/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/devices/1/status", models.ChangeStatusRequest{Status: "Broken"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/devices/1/status", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/devices/1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, "/api/devices", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	resp := env.do(t, http.MethodOptions, "/api/devices", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
