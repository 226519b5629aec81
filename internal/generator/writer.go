package generator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Project-Sylos/Helodata/internal/types"
	"github.com/google/uuid"
)

// Writer writes sequences of blocks to a file
type Writer struct {
	builder *Builder

	// OnBlock, when set, is called once per block after it has been written.
	// A non-nil error stops the run.
	OnBlock func(types.BlockRecord) error
}

// NewWriter creates a writer for blocks of blockSize bytes
func NewWriter(blockSize int) (*Writer, error) {
	builder, err := NewBuilder(blockSize)
	if err != nil {
		return nil, err
	}
	return &Writer{builder: builder}, nil
}

// WriteFile writes blocks 0..blockCount-1 of the default layout to path
func WriteFile(path string, blockCount uint32) error {
	w := &Writer{builder: defaultBuilder}
	_, err := w.WriteFile(path, int64(blockCount))
	return err
}

// WriteFile truncates path and writes blocks 0..blockCount-1 to it in order.
// The file is flushed, synced and closed before returning, including when a
// write fails partway. A failed run leaves whatever was written on disk.
func (w *Writer) WriteFile(path string, blockCount int64) (run *types.Run, err error) {
	if blockCount < 0 || blockCount > MaxBlockCount {
		return nil, fmt.Errorf("block count %d out of range [0, %d]", blockCount, MaxBlockCount)
	}

	started := timestamp()

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			run = nil
			err = fmt.Errorf("failed to close output file %s: %w", path, cerr)
		}
	}()

	runID := uuid.New().String()
	fileHash := newFileHash()
	bw := bufio.NewWriterSize(io.MultiWriter(f, fileHash), 64*1024)

	buf := make([]byte, 0, w.builder.BlockSize())
	for i := int64(0); i < blockCount; i++ {
		buf = w.builder.AppendBlock(buf[:0], uint32(i))
		if _, err := bw.Write(buf); err != nil {
			return nil, fmt.Errorf("failed to write block %d: %w", i, err)
		}
		if w.OnBlock != nil {
			err := w.OnBlock(types.BlockRecord{
				RunID:    runID,
				Index:    uint32(i),
				Offset:   i * int64(w.builder.BlockSize()),
				Checksum: ComputeChecksum(buf),
			})
			if err != nil {
				return nil, fmt.Errorf("block %d callback failed: %w", i, err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush output file %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync output file %s: %w", path, err)
	}

	return &types.Run{
		ID:         runID,
		OutputPath: path,
		BlockSize:  w.builder.BlockSize(),
		BlockCount: blockCount,
		TotalBytes: blockCount * int64(w.builder.BlockSize()),
		Checksum:   hashString(fileHash),
		StartedAt:  started,
		FinishedAt: timestamp(),
	}, nil
}

// timestamp returns the current time in UTC at the microsecond precision the
// run catalog stores
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
