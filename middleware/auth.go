package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"frtutracker/logger"
	"frtutracker/models"
	"frtutracker/utils"
)

// AuthMiddleware requires a valid technician token
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := RequestID(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"ip":         getClientIP(r),
			}).Warn("Missing authorization header")

			unauthorized(w, "Authorization header required", nil)
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" || strings.Contains(token, " ") {
			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"ip":         getClientIP(r),
			}).Warn("Invalid authorization header format")

			unauthorized(w, "Invalid authorization header format", nil)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"ip":         getClientIP(r),
				"error":      err.Error(),
			}).Warn("Invalid or expired token")

			unauthorized(w, "Invalid or expired token", err)
			return
		}

		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"technician": claims.Technician,
		}).Debug("Technician authenticated")

		next.ServeHTTP(w, r.WithContext(WithTechnician(r.Context(), claims.Technician)))
	}
}

func unauthorized(w http.ResponseWriter, message string, err error) {
	writeError(w, http.StatusUnauthorized, message, err)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse(message, err))
}

// Directory answers whether a technician is still listed.
type Directory interface {
	Contains(ctx context.Context, name string) bool
}

// RequireDirectoryMember rejects tokens whose technician has left the
// directory since sign-in. Must run after AuthMiddleware.
func RequireDirectoryMember(dir Directory) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			name := Technician(r.Context())
			if name == "" {
				unauthorized(w, "Unauthorized", nil)
				return
			}
			if !dir.Contains(r.Context(), name) {
				logger.WithFields(map[string]interface{}{
					"request_id": RequestID(r.Context()),
					"technician": name,
				}).Warn("Technician not in directory")

				writeError(w, http.StatusForbidden, "Forbidden: technician not in directory", nil)
				return
			}
			next.ServeHTTP(w, r)
		}
	}
}
