package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"frtutracker/logger"
	"frtutracker/middleware"
	"frtutracker/models"
	"frtutracker/services"
)

// DeviceManager is the device repository as the API uses it.
type DeviceManager interface {
	List(ctx context.Context) ([]models.FRTU, error)
	Get(ctx context.Context, id string) (models.FRTU, error)
	Save(ctx context.Context, device models.FRTU, isNew bool, actor string) (models.FRTU, error)
	Delete(ctx context.Context, id, serial, actor string) error
	ChangeStatus(ctx context.Context, id string, status models.FRTUStatus, actor string) (models.FRTU, error)
	RecordTest(ctx context.Context, id, actor, note string) (models.HistoryLog, error)
	Logs(ctx context.Context) ([]models.HistoryLog, error)
}

// DeviceHandler serves /api/devices.
type DeviceHandler struct {
	devices DeviceManager
}

// NewDeviceHandler creates a DeviceHandler.
func NewDeviceHandler(devices DeviceManager) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// List FRTU list
// @Summary List devices
// @Description Returns all FRTUs, optionally filtered by serial/substation text and status
// @Tags Devices
// @Produce json
// @Security BearerAuth
// @Param q query string false "Serial or substation contains"
// @Param status query string false "Online, Initializing, Connecting, Offline"
// @Success 200 {object} models.APIResponse{data=[]models.FRTU}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/devices [get]
func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.DeviceFilter{
		Query:  r.URL.Query().Get("q"),
		Status: models.FRTUStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Unknown status filter", nil))
		return
	}

	devices, err := h.devices.List(r.Context())
	if err != nil {
		logger.Error("Failed to load devices: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load devices", err))
		return
	}

	devices = services.FilterDevices(devices, filter)
	json.NewEncoder(w).Encode(models.SuccessResponse("Devices retrieved", devices))
}

// Create add a device
// @Summary Add device
// @Description Appends an FRTU and records a create entry in the history log
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.FRTU true "Device"
// @Success 201 {object} models.APIResponse{data=models.FRTU}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/devices [post]
func (h *DeviceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var device models.FRTU
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	actor := middleware.Technician(r.Context())
	saved, err := h.devices.Save(r.Context(), device, true, actor)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create device")
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": middleware.RequestID(r.Context()),
		"device_id":  saved.ID,
		"serial":     saved.SerialNumber,
		"technician": actor,
	}).Info("Device created")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Device created", saved))
}

// Get device detail
// @Summary Get device
// @Tags Devices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Success 200 {object} models.APIResponse{data=models.FRTU}
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/devices/{id} [get]
func (h *DeviceHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	device, err := h.devices.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load device")
		return
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Device retrieved", device))
}

// Update overwrite a device
// @Summary Update device
// @Description Replaces the stored FRTU with the same id and records an update entry
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Param request body models.FRTU true "Device"
// @Success 200 {object} models.APIResponse{data=models.FRTU}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/devices/{id} [put]
func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var device models.FRTU
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}
	device.ID = id

	saved, err := h.devices.Save(r.Context(), device, false, middleware.Technician(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Failed to update device")
		return
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Device updated", saved))
}

// Delete remove a device
// @Summary Delete device
// @Tags Devices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Param serial query string false "Serial kept on the history entry"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/devices/{id} [delete]
func (h *DeviceHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	serial := r.URL.Query().Get("serial")
	actor := middleware.Technician(r.Context())
	if err := h.devices.Delete(r.Context(), id, serial, actor); err != nil {
		writeServiceError(w, r, err, "Failed to delete device")
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": middleware.RequestID(r.Context()),
		"device_id":  id,
		"technician": actor,
	}).Info("Device deleted")
	json.NewEncoder(w).Encode(models.SuccessResponse("Device deleted", nil))
}

// ChangeStatus set the communication status
// @Summary Change device status
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Param request body models.ChangeStatusRequest true "New status"
// @Success 200 {object} models.APIResponse{data=models.FRTU}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/devices/{id}/status [post]
func (h *DeviceHandler) ChangeStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req models.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	device, err := h.devices.ChangeStatus(r.Context(), id, req.Status, middleware.Technician(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "Failed to change status")
		return
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Status changed", device))
}

// RecordTest log a signal test
// @Summary Record signal test
// @Description Appends a signal test entry without changing the device
// @Tags Devices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Device ID"
// @Param request body models.SignalTestRequest false "Optional note"
// @Success 201 {object} models.APIResponse{data=models.HistoryLog}
// @Failure 404 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/devices/{id}/test [post]
func (h *DeviceHandler) RecordTest(w http.ResponseWriter, r *http.Request, id string) {
	var req models.SignalTestRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
			return
		}
	}

	entry, err := h.devices.RecordTest(r.Context(), id, middleware.Technician(r.Context()), req.Note)
	if err != nil {
		writeServiceError(w, r, err, "Failed to record test")
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Test recorded", entry))
}

// ServeCollection dispatches /api/devices by method.
func (h *DeviceHandler) ServeCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.List(w, r)
	case http.MethodPost:
		h.Create(w, r)
	default:
		methodNotAllowed(w)
	}
}

// ServeDetail dispatches /api/devices/{id}[/status|/test].
func (h *DeviceHandler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/devices/"), "/")
	parts := strings.Split(path, "/")
	if parts[0] == "" || len(parts) > 2 {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.ErrorResponse("Not found", nil))
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		switch parts[1] {
		case "status":
			h.ChangeStatus(w, r, id)
		case "test":
			h.RecordTest(w, r, id)
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse("Not found", nil))
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.Get(w, r, id)
	case http.MethodPut:
		h.Update(w, r, id)
	case http.MethodDelete:
		h.Delete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

// writeServiceError maps service errors onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse(verr.Error(), nil))
	case errors.Is(err, services.ErrUnknownTechnician):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Technician not in directory", err))
	case errors.Is(err, services.ErrDeviceNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.ErrorResponse("Device not found", nil))
	case errors.Is(err, services.ErrDuplicateDevice):
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(models.ErrorResponse("Device already exists", nil))
	default:
		logger.WithFields(map[string]interface{}{
			"request_id": middleware.RequestID(r.Context()),
			"error":      err.Error(),
		}).Error("%s", message)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse(message, err))
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(models.ErrorResponse("Method not allowed", nil))
}
