package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"frtutracker/models"
	"frtutracker/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sheetBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestLogToSheet(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	rec := models.SheetRecord{OfficerName: testTechnician, FRTUSerial: "FRTU-PEA-001", Action: "ทดสอบสัญญาณ"}
	resp := env.do(t, http.MethodPost, "/api/log-to-sheet", rec)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"success": true}, sheetBody(t, resp))
	require.Len(t, env.gateway.records, 1)
	assert.Equal(t, rec, env.gateway.records[0])
}

func TestLogToSheetErrors(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	resp := env.do(t, http.MethodGet, "/api/log-to-sheet", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "Method not allowed", sheetBody(t, resp)["error"])

	cases := []struct {
		err    error
		status int
	}{
		{&sheets.ConfigurationError{Missing: []string{"GOOGLE_PRIVATE_KEY"}}, http.StatusInternalServerError},
		{fmt.Errorf("%w: database", sheets.ErrSheetNotFound), http.StatusNotFound},
		{errors.New("quota exceeded"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		env.gateway.appendErr = tc.err
		resp := env.do(t, http.MethodPost, "/api/log-to-sheet", models.SheetRecord{})
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		assert.Equal(t, tc.err.Error(), sheetBody(t, resp)["error"])
	}
}

func TestGetEmployees(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	resp := env.do(t, http.MethodGet, "/api/get-employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.NotNil(t, names)
	assert.Empty(t, names)

	env.gateway.names = []string{"A", "B"}
	resp = env.do(t, http.MethodGet, "/api/get-employees", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{"A", "B"}, names)

	env.gateway.namesErr = sheets.ErrSheetNotFound
	resp = env.do(t, http.MethodGet, "/api/get-employees", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.gateway.namesErr = errors.New("unavailable")
	resp = env.do(t, http.MethodGet, "/api/get-employees", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
