package handlers

import (
	"fmt"
	"net/http"

	"github.com/Project-Sylos/Helodata/sdk"
)

// SystemHandler handles health and system-related endpoints
type SystemHandler struct {
	BaseHandler
	h *sdk.Helodata
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(h *sdk.Helodata) *SystemHandler {
	return &SystemHandler{
		h: h,
	}
}

// HealthCheck handles the health check endpoint
func (s *SystemHandler) HealthCheck(w http.ResponseWriter, req *http.Request) {
	s.sendSuccess(w, "Helodata API is healthy", map[string]any{
		"catalog_enabled": s.h.CatalogEnabled(),
	})
}

// Reset handles the reset endpoint
func (s *SystemHandler) Reset(w http.ResponseWriter, req *http.Request) {
	if err := s.h.Reset(); err != nil {
		s.sendError(w, statusFor(err), fmt.Sprintf("Failed to reset catalog: %v", err))
		return
	}

	s.sendSuccess(w, "Catalog reset successfully", nil)
}

// GetTables handles the get tables endpoint
func (s *SystemHandler) GetTables(w http.ResponseWriter, req *http.Request) {
	tables, err := s.h.GetTableInfo()
	if err != nil {
		s.sendError(w, statusFor(err), fmt.Sprintf("Failed to get table info: %v", err))
		return
	}

	s.sendSuccess(w, "Tables retrieved successfully", tables)
}

// GetConfig handles the get config endpoint
func (s *SystemHandler) GetConfig(w http.ResponseWriter, req *http.Request) {
	s.sendSuccess(w, "Config retrieved successfully", s.h.GetConfig())
}
