package handlers

import (
	"net/http"

	"frtutracker/middleware"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Devices   *DeviceHandler
	Logs      *LogHandler
	Sessions  *SessionHandler
	Directory *DirectoryHandler
	Dashboard *DashboardHandler
	Sheets    *SheetHandler
	Members   middleware.Directory
}

// NewRouter registers every route on a fresh mux.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	public := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainMiddleware(fn,
			middleware.LoggingMiddleware,
			middleware.RecoverMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		)
	}
	protected := func(fn http.HandlerFunc) http.HandlerFunc {
		return middleware.ChainMiddleware(fn,
			middleware.LoggingMiddleware,
			middleware.RecoverMiddleware,
			middleware.CORSMiddleware,
			middleware.AuthMiddleware,
			middleware.RequireDirectoryMember(h.Members),
			middleware.SetJSONHeader,
		)
	}

	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)
	mux.HandleFunc("/health", public(Health))

	mux.HandleFunc("/api/session", public(h.Sessions.Login))
	mux.HandleFunc("/api/directory", public(h.Directory.List))

	mux.HandleFunc("/api/devices", protected(h.Devices.ServeCollection))
	mux.HandleFunc("/api/devices/", protected(h.Devices.ServeDetail))
	mux.HandleFunc("/api/logs", protected(h.Logs.List))
	mux.HandleFunc("/api/logs/export", protected(h.Logs.Export))
	mux.HandleFunc("/api/logs/export-link", protected(h.Logs.ExportLink))
	mux.HandleFunc("/api/logs/download", public(h.Logs.Download))
	mux.HandleFunc("/api/dashboard/stats", protected(getOnly(h.Dashboard.Stats)))
	mux.HandleFunc("/api/dashboard/activities", protected(getOnly(h.Dashboard.RecentActivities)))

	// spreadsheet endpoints keep the bare wire shapes the mirror expects
	mux.HandleFunc("/api/log-to-sheet", public(h.Sheets.LogToSheet))
	mux.HandleFunc("/api/get-employees", public(h.Sheets.GetEmployees))

	return mux
}

// Health liveness probe
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"success","message":"Server is healthy"}`))
}

func getOnly(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		fn(w, r)
	}
}
