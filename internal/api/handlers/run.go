package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Project-Sylos/Helodata/internal/api/models"
	"github.com/Project-Sylos/Helodata/internal/generator"
	"github.com/Project-Sylos/Helodata/internal/types"
	"github.com/Project-Sylos/Helodata/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RunHandler handles generation and run catalog endpoints
type RunHandler struct {
	BaseHandler
	h *sdk.Helodata
}

// NewRunHandler creates a new run handler
func NewRunHandler(h *sdk.Helodata) *RunHandler {
	return &RunHandler{
		h: h,
	}
}

// Generate handles the generate endpoint
func (r *RunHandler) Generate(w http.ResponseWriter, req *http.Request) {
	var request models.GenerateRequest
	dec := json.NewDecoder(req.Body)
	if err := dec.Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		r.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// Only one JSON object is accepted
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		r.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg := r.h.GetConfig()

	path := cfg.Block.OutputPath
	if request.FileName != "" {
		if strings.ContainsAny(request.FileName, `/\`) || request.FileName == "." || request.FileName == ".." {
			r.sendError(w, http.StatusBadRequest, "file_name must be a bare file name")
			return
		}
		path = filepath.Join(filepath.Dir(cfg.Block.OutputPath), request.FileName)
	}

	count := cfg.Block.BlockCount
	if request.BlockCount != nil {
		count = *request.BlockCount
	}
	if count < 0 || count > generator.MaxBlockCount {
		r.sendError(w, http.StatusBadRequest, fmt.Sprintf("block_count must be between 0 and %d", generator.MaxBlockCount))
		return
	}

	run, err := r.h.GenerateTo(path, count)
	if err != nil {
		r.sendError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate file: %v", err))
		return
	}

	r.sendJSON(w, http.StatusCreated, types.APIResponse{
		Success: true,
		Message: "File generated successfully",
		Data:    run,
	})
}

// ListRuns handles the list runs endpoint
func (r *RunHandler) ListRuns(w http.ResponseWriter, req *http.Request) {
	runs, err := r.h.ListRuns()
	if err != nil {
		r.sendError(w, statusFor(err), fmt.Sprintf("Failed to list runs: %v", err))
		return
	}

	r.sendSuccess(w, "Runs retrieved successfully", runs)
}

// GetRun handles the get run endpoint
func (r *RunHandler) GetRun(w http.ResponseWriter, req *http.Request) {
	id, ok := r.runID(w, req)
	if !ok {
		return
	}

	run, err := r.h.GetRun(id)
	if err != nil {
		r.sendError(w, statusFor(err), fmt.Sprintf("Failed to get run: %v", err))
		return
	}

	r.sendSuccess(w, "Run retrieved successfully", run)
}

// GetRunBlocks handles the get run blocks endpoint
func (r *RunHandler) GetRunBlocks(w http.ResponseWriter, req *http.Request) {
	id, ok := r.runID(w, req)
	if !ok {
		return
	}

	blocks, err := r.h.GetRunBlocks(id)
	if err != nil {
		r.sendError(w, statusFor(err), fmt.Sprintf("Failed to get run blocks: %v", err))
		return
	}

	r.sendSuccess(w, "Run blocks retrieved successfully", blocks)
}

// GetRunBlock handles the get run block endpoint
func (r *RunHandler) GetRunBlock(w http.ResponseWriter, req *http.Request) {
	id, ok := r.runID(w, req)
	if !ok {
		return
	}

	index, err := parseIndex(chi.URLParam(req, "index"))
	if err != nil {
		r.sendError(w, http.StatusBadRequest, "block index must be an unsigned 32-bit integer")
		return
	}

	block, err := r.h.GetRunBlock(id, index)
	if err != nil {
		r.sendError(w, statusFor(err), fmt.Sprintf("Failed to get run block: %v", err))
		return
	}

	r.sendSuccess(w, "Run block retrieved successfully", block)
}

// runID extracts and validates the run ID URL parameter
func (r *RunHandler) runID(w http.ResponseWriter, req *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		r.sendError(w, http.StatusBadRequest, "run id must be a UUID")
		return "", false
	}
	return id.String(), true
}
