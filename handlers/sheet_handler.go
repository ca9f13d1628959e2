package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"frtutracker/logger"
	"frtutracker/middleware"
	"frtutracker/models"
	"frtutracker/sheets"
)

// SheetGateway reaches the backing spreadsheet.
type SheetGateway interface {
	AppendLog(ctx context.Context, record models.SheetRecord) error
	Employees(ctx context.Context) ([]string, error)
}

// SheetHandler serves the spreadsheet endpoints. Their bodies are bare JSON
// rather than the API envelope.
type SheetHandler struct {
	gateway SheetGateway
}

// NewSheetHandler creates a SheetHandler.
func NewSheetHandler(gateway SheetGateway) *SheetHandler {
	return &SheetHandler{gateway: gateway}
}

type sheetError struct {
	Error string `json:"error"`
}

type sheetSuccess struct {
	Success bool `json:"success"`
}

// LogToSheet append one audit entry to the sheet
// @Summary Append log row
// @Description Appends one history entry to the log sheet
// @Tags Sheets
// @Accept json
// @Produce json
// @Param request body models.SheetRecord true "Entry"
// @Success 200 {object} handlers.sheetSuccess
// @Failure 400 {object} handlers.sheetError
// @Failure 404 {object} handlers.sheetError
// @Failure 405 {object} handlers.sheetError
// @Failure 500 {object} handlers.sheetError
// @Failure 502 {object} handlers.sheetError
// @Router /api/log-to-sheet [post]
func (h *SheetHandler) LogToSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeSheetJSON(w, http.StatusMethodNotAllowed, sheetError{Error: "Method not allowed"})
		return
	}

	var record models.SheetRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeSheetJSON(w, http.StatusBadRequest, sheetError{Error: "Invalid request body"})
		return
	}

	if err := h.gateway.AppendLog(r.Context(), record); err != nil {
		status := sheetStatus(err, http.StatusBadGateway)
		logger.WithFields(map[string]interface{}{
			"request_id": middleware.RequestID(r.Context()),
			"serial":     record.FRTUSerial,
			"error":      err.Error(),
		}).Error("Sheet Logging Error")
		writeSheetJSON(w, status, sheetError{Error: err.Error()})
		return
	}

	writeSheetJSON(w, http.StatusOK, sheetSuccess{Success: true})
}

// GetEmployees employee names from the directory sheet
// @Summary Employee directory
// @Description Names from the directory sheet; empty when credentials are missing
// @Tags Sheets
// @Produce json
// @Success 200 {array} string
// @Failure 404 {object} handlers.sheetError
// @Failure 500 {object} handlers.sheetError
// @Router /api/get-employees [get]
func (h *SheetHandler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeSheetJSON(w, http.StatusMethodNotAllowed, sheetError{Error: "Method not allowed"})
		return
	}

	names, err := h.gateway.Employees(r.Context())
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": middleware.RequestID(r.Context()),
			"error":      err.Error(),
		}).Error("Failed to read employees")
		writeSheetJSON(w, sheetStatus(err, http.StatusInternalServerError), sheetError{Error: err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeSheetJSON(w, http.StatusOK, names)
}

func sheetStatus(err error, fallback int) int {
	switch {
	case sheets.IsConfigurationError(err):
		return http.StatusInternalServerError
	case errors.Is(err, sheets.ErrSheetNotFound):
		return http.StatusNotFound
	default:
		return fallback
	}
}

func writeSheetJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
