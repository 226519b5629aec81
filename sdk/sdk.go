package sdk

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Project-Sylos/Helodata/internal/config"
	"github.com/Project-Sylos/Helodata/internal/db"
	"github.com/Project-Sylos/Helodata/internal/generator"
	"github.com/Project-Sylos/Helodata/internal/types"
)

var (
	// ErrCatalogDisabled is returned by catalog queries when no catalog is open
	ErrCatalogDisabled = errors.New("run catalog is disabled")

	// ErrBlockOutOfRange is returned for block indices at or past the configured count
	ErrBlockOutOfRange = errors.New("block index out of range")

	// ErrRunNotFound is returned when a run ID is not in the catalog
	ErrRunNotFound = db.ErrRunNotFound

	// ErrBlockNotFound is returned when a recorded run has no record for a block index
	ErrBlockNotFound = db.ErrBlockNotFound
)

// blockBatchSize bounds how many block records are buffered before they are
// written to the catalog
const blockBatchSize = 4096

// Helodata is the public SDK for generating helo data files
type Helodata struct {
	cfg     *types.Config
	builder *generator.Builder
	catalog *db.DB

	// genMu serializes file generation
	genMu sync.Mutex
}

// New creates a new Helodata instance using the specified config file
func New(configPath string) (*Helodata, error) {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithDefaults creates a new Helodata instance using the reference configuration
func NewWithDefaults() (*Helodata, error) {
	cfg := config.DefaultConfig()
	return NewWithConfig(&cfg)
}

// NewWithConfig creates a new Helodata instance from an in-memory configuration
func NewWithConfig(cfg *types.Config) (*Helodata, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	builder, err := generator.NewBuilder(cfg.Block.BlockSize)
	if err != nil {
		return nil, err
	}

	h := &Helodata{
		cfg:     cfg,
		builder: builder,
	}

	if cfg.Catalog.Enabled {
		catalog, err := db.New(cfg.Catalog.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open run catalog: %w", err)
		}
		h.catalog = catalog
	}

	return h, nil
}

// Generate writes the configured file
func (h *Helodata) Generate() (*types.Run, error) {
	return h.GenerateTo(h.cfg.Block.OutputPath, h.cfg.Block.BlockCount)
}

// GenerateTo writes blockCount blocks of the configured size to path.
// When the catalog is enabled the block checksums are recorded in batches while
// the file is written and the run is recorded once the file is complete. If
// either step fails, the records of the run are removed from the catalog.
func (h *Helodata) GenerateTo(path string, blockCount int64) (*types.Run, error) {
	h.genMu.Lock()
	defer h.genMu.Unlock()

	w, err := generator.NewWriter(h.builder.BlockSize())
	if err != nil {
		return nil, err
	}

	if h.catalog == nil {
		return w.WriteFile(path, blockCount)
	}

	var runID string
	batch := make([]types.BlockRecord, 0, blockBatchSize)
	w.OnBlock = func(rec types.BlockRecord) error {
		runID = rec.RunID
		batch = append(batch, rec)
		if len(batch) < blockBatchSize {
			return nil
		}
		err := h.catalog.BulkInsertBlocks(batch)
		batch = batch[:0]
		return err
	}

	run, err := w.WriteFile(path, blockCount)
	if err == nil {
		if err = h.catalog.BulkInsertBlocks(batch); err == nil {
			err = h.catalog.InsertRun(run)
		}
		if err != nil {
			err = fmt.Errorf("file written but run was not recorded: %w", err)
		}
	}
	if err != nil {
		if run != nil {
			runID = run.ID
		}
		if runID != "" {
			if derr := h.catalog.DeleteRun(runID); derr != nil {
				log.Printf("Failed to remove partial records of run %s: %v", runID, derr)
			}
		}
		return run, err
	}

	return run, nil
}

// Block returns block n of the configured layout
func (h *Helodata) Block(n uint32) ([]byte, error) {
	data, _, err := h.block(n, false)
	return data, err
}

// block builds block n and, when withChecksum is set, its checksum
func (h *Helodata) block(n uint32, withChecksum bool) ([]byte, string, error) {
	if int64(n) >= h.cfg.Block.BlockCount {
		return nil, "", fmt.Errorf("%w: %d >= %d", ErrBlockOutOfRange, n, h.cfg.Block.BlockCount)
	}
	if !withChecksum {
		return h.builder.Build(n), "", nil
	}
	if h.builder.BlockSize() == generator.DefaultBlockSize {
		data, sum := generator.GenerateDeterministicBlockData(n)
		return data, sum, nil
	}
	data := h.builder.Build(n)
	return data, generator.ComputeChecksum(data), nil
}

// BlockInfo returns a summary of block n, including its checksum
func (h *Helodata) BlockInfo(n uint32) (*types.BlockInfo, error) {
	data, sum, err := h.block(n, true)
	if err != nil {
		return nil, err
	}

	info := &types.BlockInfo{
		Index:     n,
		Size:      len(data),
		WordCount: h.builder.WordCount(),
		Tag:       generator.Tag,
		Checksum:  sum,
	}
	if info.WordCount > 0 {
		info.FirstWord = generator.SequenceStep(n)
	}
	return info, nil
}

// BlockChecksum returns the SHA256 checksum of block n
func (h *Helodata) BlockChecksum(n uint32) (string, error) {
	_, sum, err := h.block(n, true)
	return sum, err
}

// GetConfig returns the current configuration
func (h *Helodata) GetConfig() *types.Config {
	return h.cfg
}

// CatalogEnabled reports whether runs are being recorded
func (h *Helodata) CatalogEnabled() bool {
	return h.catalog != nil
}

// ListRuns returns all recorded runs, most recent first
func (h *Helodata) ListRuns() ([]*types.Run, error) {
	if h.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	return h.catalog.ListRuns()
}

// GetRun returns a recorded run by ID
func (h *Helodata) GetRun(id string) (*types.Run, error) {
	if h.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	return h.catalog.GetRun(id)
}

// GetRunBlocks returns the block records of a recorded run
func (h *Helodata) GetRunBlocks(id string) ([]types.BlockRecord, error) {
	if h.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	if _, err := h.catalog.GetRun(id); err != nil {
		return nil, err
	}
	return h.catalog.GetBlocks(id)
}

// GetRunBlock returns the record of block index of a recorded run
func (h *Helodata) GetRunBlock(id string, index uint32) (*types.BlockRecord, error) {
	if h.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	if _, err := h.catalog.GetRun(id); err != nil {
		return nil, err
	}
	return h.catalog.GetBlock(id, index)
}

// GetTableInfo returns row counts of the catalog tables
func (h *Helodata) GetTableInfo() ([]types.TableInfo, error) {
	if h.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	return h.catalog.GetTableInfo()
}

// Reset clears all recorded runs. Generated files are left on disk.
func (h *Helodata) Reset() error {
	if h.catalog == nil {
		return ErrCatalogDisabled
	}
	return h.catalog.DeleteAllRuns()
}

// Close closes the run catalog, if one is open
func (h *Helodata) Close() error {
	if h.catalog == nil {
		return nil
	}
	return h.catalog.Close()
}

// Re-export types for convenience
type (
	Config      = types.Config
	Run         = types.Run
	BlockRecord = types.BlockRecord
	BlockInfo   = types.BlockInfo
	TableInfo   = types.TableInfo
	APIResponse = types.APIResponse
)

// Re-export layout constants
const (
	Tag               = generator.Tag
	HeaderSize        = generator.HeaderSize
	DefaultBlockSize  = generator.DefaultBlockSize
	DefaultBlockCount = generator.DefaultBlockCount
)

// ComputeChecksum returns the hex SHA256 checksum used throughout the catalog
func ComputeChecksum(data []byte) string {
	return generator.ComputeChecksum(data)
}
