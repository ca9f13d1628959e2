package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"frtutracker/logger"
	"frtutracker/middleware"
	"frtutracker/models"
	"frtutracker/services"
	"frtutracker/utils"
)

// LogReader exposes the audit log.
type LogReader interface {
	Logs(ctx context.Context) ([]models.HistoryLog, error)
}

// LogHandler serves the history log and its exports.
type LogHandler struct {
	logs     LogReader
	exporter *services.ReportExporter
	linkTTL  time.Duration
	now      func() time.Time
}

// NewLogHandler creates a LogHandler. linkTTL bounds presigned download
// links; zero means 5 minutes.
func NewLogHandler(logs LogReader, exporter *services.ReportExporter, linkTTL time.Duration) *LogHandler {
	if linkTTL <= 0 {
		linkTTL = 5 * time.Minute
	}
	return &LogHandler{logs: logs, exporter: exporter, linkTTL: linkTTL, now: time.Now}
}

// List history log
// @Summary List history log
// @Description Returns audit entries newest first
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.HistoryLog}
// @Failure 401 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/logs [get]
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	logs, err := h.logs.Logs(r.Context())
	if err != nil {
		logger.Error("Failed to load history log: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load history log", err))
		return
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Logs retrieved", logs))
}

// Export download the history log
// @Summary Export history log
// @Description Downloads the log as CSV (UTF-8 with BOM) or PDF
// @Tags Logs
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Nothing to export"
// @Failure 500 {object} models.APIResponse
// @Router /api/logs/export [get]
func (h *LogHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	h.writeExport(w, r, format)
}

// ExportLink issue a presigned download link
// @Summary Create export download link
// @Description Returns a short-lived URL that downloads the export without a bearer token
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param format query string false "csv (default) or pdf"
// @Success 200 {object} models.APIResponse{data=models.ExportLink}
// @Failure 400 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/logs/export-link [post]
func (h *LogHandler) ExportLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	format, ok := exportFormat(w, r)
	if !ok {
		return
	}

	query, err := utils.GenerateSignedExportQuery(format, h.linkTTL)
	if err != nil {
		logger.Error("Failed to sign export link: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to create download link", err))
		return
	}

	link := models.ExportLink{
		URL:       "/api/logs/download?" + query,
		ExpiresAt: h.now().Add(h.linkTTL).Unix(),
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Download link created", link))
}

// Download serve an export from a presigned link
// @Summary Download export via signed link
// @Tags Logs
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "csv or pdf"
// @Param exp query string true "Expiry (unix seconds)"
// @Param nonce query string true "Nonce"
// @Param sig query string true "Signature"
// @Success 200 {file} file
// @Failure 403 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse "Nothing to export"
// @Router /api/logs/download [get]
func (h *LogHandler) Download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	if err := utils.ValidateSignedExportRequest(q.Get("format"), q.Get("exp"), q.Get("nonce"), q.Get("sig")); err != nil {
		logger.Warn("Rejected export download: %v", err)
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid or expired download link", nil))
		return
	}

	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	h.writeExport(w, r, format)
}

func exportFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Unsupported export format", nil))
		return "", false
	}
	return format, true
}

func (h *LogHandler) writeExport(w http.ResponseWriter, r *http.Request, format string) {
	logs, err := h.logs.Logs(r.Context())
	if err != nil {
		logger.Error("Failed to load history log: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load history log", err))
		return
	}

	var (
		body        []byte
		ok          bool
		contentType string
	)
	switch format {
	case "pdf":
		body, ok, err = h.exporter.ExportPDF(logs)
		contentType = "application/pdf"
	default:
		body, ok = h.exporter.ExportCSV(logs)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		logger.Error("Failed to render %s export: %v", format, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to export logs", err))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.ErrorResponse("No logs to export", nil))
		return
	}

	name := services.ReportFileName(h.now(), format)
	logger.WithFields(map[string]interface{}{
		"request_id": middleware.RequestID(r.Context()),
		"format":     format,
		"entries":    len(logs),
	}).Info("History log exported")

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}
