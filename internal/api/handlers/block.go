package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Project-Sylos/Helodata/sdk"
	"github.com/go-chi/chi/v5"
)

// BlockHandler serves individual blocks
type BlockHandler struct {
	BaseHandler
	h *sdk.Helodata
}

// NewBlockHandler creates a new block handler
func NewBlockHandler(h *sdk.Helodata) *BlockHandler {
	return &BlockHandler{
		h: h,
	}
}

// GetBlock returns the raw bytes of one block
func (b *BlockHandler) GetBlock(w http.ResponseWriter, req *http.Request) {
	index, err := parseIndex(chi.URLParam(req, "index"))
	if err != nil {
		b.sendError(w, http.StatusBadRequest, "block index must be an unsigned 32-bit integer")
		return
	}

	data, err := b.h.Block(index)
	if err != nil {
		b.sendError(w, statusFor(err), fmt.Sprintf("Failed to build block: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Block-Checksum", sdk.ComputeChecksum(data))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetBlockInfo returns a JSON summary of one block
func (b *BlockHandler) GetBlockInfo(w http.ResponseWriter, req *http.Request) {
	index, err := parseIndex(chi.URLParam(req, "index"))
	if err != nil {
		b.sendError(w, http.StatusBadRequest, "block index must be an unsigned 32-bit integer")
		return
	}

	info, err := b.h.BlockInfo(index)
	if err != nil {
		b.sendError(w, statusFor(err), fmt.Sprintf("Failed to describe block: %v", err))
		return
	}

	b.sendSuccess(w, "Block retrieved successfully", info)
}
