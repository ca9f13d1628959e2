package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"frtutracker/models"
)

// DirectoryResolver returns the technician names.
type DirectoryResolver interface {
	Resolve(ctx context.Context) []string
}

// DirectoryHandler serves /api/directory.
type DirectoryHandler struct {
	directory DirectoryResolver
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(directory DirectoryResolver) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// List technician directory
// @Summary Technician directory
// @Description Remote directory when reachable, else the cached or seed list
// @Tags Directory
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]string}
// @Router /api/directory [get]
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	json.NewEncoder(w).Encode(models.SuccessResponse("Directory retrieved", h.directory.Resolve(r.Context())))
}
