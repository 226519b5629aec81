package types

import (
	"time"
)

// Config represents the complete configuration for Helodata
type Config struct {
	Block   BlockConfig   `json:"block"`
	Catalog CatalogConfig `json:"catalog"`
	API     APIConfig     `json:"api"`
}

// BlockConfig describes the layout and destination of the generated file
type BlockConfig struct {
	BlockSize  int    `json:"block_size"`
	BlockCount int64  `json:"block_count"`
	OutputPath string `json:"output_path"`
}

// CatalogConfig controls the DuckDB run catalog.
// An empty DBPath with Enabled set opens an in-memory catalog.
type CatalogConfig struct {
	Enabled bool   `json:"enabled"`
	DBPath  string `json:"db_path"`
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Run describes one completed generation of a data file
type Run struct {
	ID         string    `json:"id"`
	OutputPath string    `json:"output_path"`
	BlockSize  int       `json:"block_size"`
	BlockCount int64     `json:"block_count"`
	TotalBytes int64     `json:"total_bytes"`
	Checksum   string    `json:"checksum"` // SHA-256 of the whole file
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// BlockRecord is the catalog entry for a single block of a run
type BlockRecord struct {
	RunID    string `json:"run_id"`
	Index    uint32 `json:"block_index"`
	Offset   int64  `json:"offset"`
	Checksum string `json:"checksum"`
}

// BlockInfo summarizes a single generated block without its payload
type BlockInfo struct {
	Index     uint32 `json:"index"`
	Size      int    `json:"size"`
	WordCount int    `json:"word_count"`
	Tag       string `json:"tag"`
	FirstWord uint32 `json:"first_word"`
	Checksum  string `json:"checksum"`
}

// APIResponse represents a generic API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// TableInfo represents information about a database table
type TableInfo struct {
	Name     string `json:"name"`
	RowCount int    `json:"row_count"`
}

// Catalog table names
const (
	TableRuns   = "runs"
	TableBlocks = "blocks"
)
