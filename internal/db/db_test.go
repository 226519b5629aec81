package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Project-Sylos/Helodata/internal/types"
	"github.com/google/uuid"
)

func newTestRun(started time.Time, blockCount int64) *types.Run {
	return &types.Run{
		ID:         uuid.New().String(),
		OutputPath: "/tmp/data.dat",
		BlockSize:  512,
		BlockCount: blockCount,
		TotalBytes: blockCount * 512,
		Checksum:   fmt.Sprintf("%064d", blockCount),
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
}

func newTestBlocks(runID string, count int) []types.BlockRecord {
	blocks := make([]types.BlockRecord, count)
	for i := range blocks {
		blocks[i] = types.BlockRecord{
			RunID:    runID,
			Index:    uint32(i),
			Offset:   int64(i) * 512,
			Checksum: fmt.Sprintf("%064x", i),
		}
	}
	return blocks
}

// TestNewDB tests the New function
func TestNewDB(t *testing.T) {
	tests := []struct {
		name   string
		dbPath func(t *testing.T) string
	}{
		{
			name:   "in-memory database",
			dbPath: func(t *testing.T) string { return "" },
		},
		{
			name:   "temporary file database",
			dbPath: func(t *testing.T) string { return filepath.Join(t.TempDir(), "test.db") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.dbPath(t))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			defer db.Close()

			if db.conn == nil {
				t.Errorf("Expected database connection but got nil")
			}

			tables, err := db.GetTableInfo()
			if err != nil {
				t.Fatalf("GetTableInfo failed: %v", err)
			}
			if len(tables) != 2 {
				t.Fatalf("Expected 2 tables, got %d", len(tables))
			}
			for _, table := range tables {
				if table.RowCount != 0 {
					t.Errorf("Expected empty table %s, got %d rows", table.Name, table.RowCount)
				}
			}
		})
	}
}

// TestInsertRunAndBlocks tests inserting and reading back a run with its blocks
func TestInsertRunAndBlocks(t *testing.T) {
	db, err := New("")
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	defer db.Close()

	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run := newTestRun(started, 4)
	blocks := newTestBlocks(run.ID, 4)

	// Blocks are written in batches before the run row exists
	if err := db.BulkInsertBlocks(blocks[:2]); err != nil {
		t.Fatalf("BulkInsertBlocks failed: %v", err)
	}
	if err := db.BulkInsertBlocks(blocks[2:]); err != nil {
		t.Fatalf("BulkInsertBlocks failed: %v", err)
	}
	if err := db.InsertRun(run); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	got, err := db.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.ID != run.ID || got.OutputPath != run.OutputPath || got.Checksum != run.Checksum {
		t.Errorf("GetRun returned %+v, want %+v", got, run)
	}
	if got.BlockSize != 512 || got.BlockCount != 4 || got.TotalBytes != 2048 {
		t.Errorf("Unexpected layout in %+v", got)
	}
	if !got.StartedAt.Equal(run.StartedAt) || !got.FinishedAt.Equal(run.FinishedAt) {
		t.Errorf("Timestamps differ: got %v..%v, want %v..%v", got.StartedAt, got.FinishedAt, run.StartedAt, run.FinishedAt)
	}

	gotBlocks, err := db.GetBlocks(run.ID)
	if err != nil {
		t.Fatalf("GetBlocks failed: %v", err)
	}
	if len(gotBlocks) != len(blocks) {
		t.Fatalf("Expected %d blocks, got %d", len(blocks), len(gotBlocks))
	}
	for i, b := range gotBlocks {
		if b != blocks[i] {
			t.Errorf("Block %d = %+v, want %+v", i, b, blocks[i])
		}
	}

	block, err := db.GetBlock(run.ID, 2)
	if err != nil {
		t.Fatalf("GetBlock failed: %v", err)
	}
	if *block != blocks[2] {
		t.Errorf("GetBlock = %+v, want %+v", *block, blocks[2])
	}

	if _, err := db.GetBlock(run.ID, 10); !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("Expected ErrBlockNotFound, got %v", err)
	}
}

// TestGetRunNotFound tests the not-found sentinel
func TestGetRunNotFound(t *testing.T) {
	db, err := New("")
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	defer db.Close()

	_, err = db.GetRun(uuid.New().String())
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
}

// TestListRunsAndReset tests listing order, table counts and deletion
func TestListRunsAndReset(t *testing.T) {
	db, err := New("")
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no runs, got %d", len(runs))
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	older := newTestRun(base, 2)
	newer := newTestRun(base.Add(time.Hour), 3)

	if err := db.InsertRun(older); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if err := db.BulkInsertBlocks(newTestBlocks(older.ID, 2)); err != nil {
		t.Fatalf("BulkInsertBlocks failed: %v", err)
	}
	if err := db.BulkInsertBlocks(newTestBlocks(newer.ID, 3)); err != nil {
		t.Fatalf("BulkInsertBlocks failed: %v", err)
	}
	if err := db.InsertRun(newer); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	runs, err = db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID || runs[1].ID != older.ID {
		t.Errorf("Expected most recent run first")
	}

	tables, err := db.GetTableInfo()
	if err != nil {
		t.Fatalf("GetTableInfo failed: %v", err)
	}
	counts := map[string]int{}
	for _, table := range tables {
		counts[table.Name] = table.RowCount
	}
	if counts[types.TableRuns] != 2 || counts[types.TableBlocks] != 5 {
		t.Errorf("Unexpected table counts: %v", counts)
	}

	if err := db.DeleteAllRuns(); err != nil {
		t.Fatalf("DeleteAllRuns failed: %v", err)
	}
	runs, _ = db.ListRuns()
	if len(runs) != 0 {
		t.Errorf("Expected no runs after reset, got %d", len(runs))
	}
}

// TestDuplicateBlockRollsBack tests that a failed batch leaves no partial rows
func TestDuplicateBlockRollsBack(t *testing.T) {
	db, err := New("")
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	defer db.Close()

	run := newTestRun(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), 1)
	if err := db.BulkInsertBlocks(newTestBlocks(run.ID, 1)); err != nil {
		t.Fatalf("BulkInsertBlocks failed: %v", err)
	}

	// Block 0 again violates the primary key, so block 1 must not persist either
	if err := db.BulkInsertBlocks(newTestBlocks(run.ID, 2)); err == nil {
		t.Fatalf("Expected error for duplicate block")
	}

	blocks, err := db.GetBlocks(run.ID)
	if err != nil {
		t.Fatalf("GetBlocks failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Errorf("Expected 1 block after rolled back insert, got %d", len(blocks))
	}
}

// TestDeleteRun tests removing one run and orphaned block records
func TestDeleteRun(t *testing.T) {
	db, err := New("")
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	defer db.Close()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	kept := newTestRun(base, 2)
	removed := newTestRun(base, 2)
	orphanID := uuid.New().String()

	for _, run := range []*types.Run{kept, removed} {
		if err := db.BulkInsertBlocks(newTestBlocks(run.ID, 2)); err != nil {
			t.Fatalf("BulkInsertBlocks failed: %v", err)
		}
		if err := db.InsertRun(run); err != nil {
			t.Fatalf("InsertRun failed: %v", err)
		}
	}
	if err := db.BulkInsertBlocks(newTestBlocks(orphanID, 3)); err != nil {
		t.Fatalf("BulkInsertBlocks failed: %v", err)
	}

	if err := db.DeleteRun(removed.ID); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if err := db.DeleteRun(orphanID); err != nil {
		t.Fatalf("DeleteRun of orphan blocks failed: %v", err)
	}

	if _, err := db.GetRun(removed.ID); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Expected ErrRunNotFound, got %v", err)
	}
	for _, id := range []string{removed.ID, orphanID} {
		blocks, _ := db.GetBlocks(id)
		if len(blocks) != 0 {
			t.Errorf("Expected no blocks for %s, got %d", id, len(blocks))
		}
	}
	blocks, _ := db.GetBlocks(kept.ID)
	if len(blocks) != 2 {
		t.Errorf("Expected kept run to keep 2 blocks, got %d", len(blocks))
	}
}

// TestPersistence tests that a file catalog survives reopening
func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("Failed to create DB: %v", err)
	}
	run := newTestRun(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), 1)
	if err := db.InsertRun(run); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err = New(path)
	if err != nil {
		t.Fatalf("Failed to reopen DB: %v", err)
	}
	defer db.Close()

	if _, err := db.GetRun(run.ID); err != nil {
		t.Errorf("Expected run to persist: %v", err)
	}
}
