package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"frtutracker/logger"
	"frtutracker/middleware"
	"frtutracker/models"
	"frtutracker/services"
)

// SessionIssuer signs technicians in.
type SessionIssuer interface {
	Login(ctx context.Context, req models.SessionRequest) (models.SessionResponse, error)
}

// SessionHandler serves /api/session.
type SessionHandler struct {
	sessions SessionIssuer
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions SessionIssuer) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login technician sign-in
// @Summary Technician sign-in
// @Description Exchanges a directory name and the team passcode for a bearer token
// @Tags Session
// @Accept json
// @Produce json
// @Param request body models.SessionRequest true "Credentials"
// @Success 200 {object} models.APIResponse{data=models.SessionResponse}
// @Failure 400 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Failure 500 {object} models.APIResponse
// @Router /api/session [post]
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	requestID := middleware.RequestID(r.Context())

	var req models.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid session request body")

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	resp, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownTechnician) || errors.Is(err, services.ErrInvalidPasscode) {
			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"technician": req.Technician,
				"reason":     err.Error(),
			}).Warn("Sign-in rejected")

			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(models.ErrorResponse("Invalid credentials", nil))
			return
		}
		logger.Error("Failed to issue session: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to issue session", err))
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"technician": resp.Technician,
	}).Info("Technician signed in")
	json.NewEncoder(w).Encode(models.SuccessResponse("Signed in", resp))
}
