package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"frtutracker/logger"
	"frtutracker/utils"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(logger.ERROR, io.Discard)
	utils.SetJWTSecret([]byte("middleware-secret"))
	os.Exit(m.Run())
}

type directory map[string]bool

func (d directory) Contains(_ context.Context, name string) bool { return d[name] }

func echoTechnician(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(Technician(r.Context()) + "|" + RequestID(r.Context())))
}

func TestAuthChain(t *testing.T) {
	h := ChainMiddleware(echoTechnician,
		LoggingMiddleware,
		AuthMiddleware,
		RequireDirectoryMember(directory{"tech": true}),
	)

	token, _, err := utils.GenerateToken("tech", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	reqID := rec.Header().Get("X-Request-ID")
	assert.NotEmpty(t, reqID)
	assert.Equal(t, "tech|"+reqID, rec.Body.String())
}

func TestAuthRejections(t *testing.T) {
	h := ChainMiddleware(echoTechnician, AuthMiddleware, RequireDirectoryMember(directory{}))

	for _, header := range []string{"", "Basic abc", "Bearer broken"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}

	token, _, err := utils.GenerateToken("former", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestIDPropagation(t *testing.T) {
	h := ChainMiddleware(echoTechnician, LoggingMiddleware)

	incoming := xid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, incoming, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "not an xid")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.NotEqual(t, "not an xid", rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRecoverMiddleware(t *testing.T) {
	h := ChainMiddleware(func(http.ResponseWriter, *http.Request) { panic("boom") }, RecoverMiddleware)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", getClientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", getClientIP(req))

	req.Header.Set("X-Real-IP", "172.16.0.1")
	assert.Equal(t, "172.16.0.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}
