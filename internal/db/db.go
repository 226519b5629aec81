package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/Project-Sylos/Helodata/internal/types"
	_ "github.com/marcboeker/go-duckdb"
)

var (
	// ErrRunNotFound is returned when a run ID is not in the catalog
	ErrRunNotFound = errors.New("run not found")

	// ErrBlockNotFound is returned when a run has no record for a block index
	ErrBlockNotFound = errors.New("block record not found")
)

// DB wraps a DuckDB connection holding the run catalog
type DB struct {
	conn *sql.DB
	mu   sync.Mutex // Protects all database operations from concurrent access
}

// New opens the catalog at dbPath and creates its tables if needed.
// An empty dbPath opens an in-memory database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.InitializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// InitializeSchema creates the runs and blocks tables and their indexes.
// Existing tables and rows are kept.
func (db *DB) InitializeSchema() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec(BuildRunsTableSQL()); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	if _, err := db.conn.Exec(BuildBlocksTableSQL()); err != nil {
		return fmt.Errorf("failed to create blocks table: %w", err)
	}
	for _, stmt := range BuildIndexesSQL() {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

const insertRunSQL = `
INSERT INTO runs (id, output_path, block_size, block_count, total_bytes, checksum, started_at, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const insertBlockSQL = `
INSERT INTO blocks (run_id, block_index, byte_offset, checksum)
VALUES (?, ?, ?, ?)`

// InsertRun inserts a single run without block records
func (db *DB) InsertRun(run *types.Run) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec(insertRunSQL, runValues(run)...); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}

// BulkInsertBlocks inserts block records in a single transaction
func (db *DB) BulkInsertBlocks(blocks []types.BlockRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(blocks) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertBlocks(tx, blocks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteRun removes a run and its block records. Block records written for a
// run that was never inserted are removed too.
func (db *DB) DeleteRun(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM blocks WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete blocks of run %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertBlocks(tx *sql.Tx, blocks []types.BlockRecord) error {
	if len(blocks) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(insertBlockSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range blocks {
		if _, err := stmt.Exec(b.RunID, int64(b.Index), b.Offset, b.Checksum); err != nil {
			return fmt.Errorf("failed to insert block %d of run %s: %w", b.Index, b.RunID, err)
		}
	}
	return nil
}

func runValues(run *types.Run) []interface{} {
	return []interface{}{
		run.ID,
		run.OutputPath,
		run.BlockSize,
		run.BlockCount,
		run.TotalBytes,
		run.Checksum,
		run.StartedAt,
		run.FinishedAt,
	}
}

const selectRunColumns = `id, output_path, block_size, block_count, total_bytes, checksum, started_at, finished_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*types.Run, error) {
	run := &types.Run{}
	err := row.Scan(
		&run.ID,
		&run.OutputPath,
		&run.BlockSize,
		&run.BlockCount,
		&run.TotalBytes,
		&run.Checksum,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun retrieves a run by its ID
func (db *DB) GetRun(id string) (*types.Run, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	row := db.conn.QueryRow("SELECT "+selectRunColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs, most recent first
func (db *DB) ListRuns() ([]*types.Run, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query("SELECT " + selectRunColumns + " FROM runs ORDER BY started_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []*types.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

func scanBlock(row scanner) (*types.BlockRecord, error) {
	var index int64
	b := &types.BlockRecord{}
	if err := row.Scan(&b.RunID, &index, &b.Offset, &b.Checksum); err != nil {
		return nil, err
	}
	b.Index = uint32(index)
	return b, nil
}

// GetBlocks returns the block records of a run ordered by index
func (db *DB) GetBlocks(runID string) ([]types.BlockRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rows, err := db.conn.Query(`
SELECT run_id, block_index, byte_offset, checksum
FROM blocks
WHERE run_id = ?
ORDER BY block_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks of run %s: %w", runID, err)
	}
	defer rows.Close()

	blocks := []types.BlockRecord{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocks: %w", err)
	}
	return blocks, nil
}

// GetBlock returns a single block record of a run
func (db *DB) GetBlock(runID string, index uint32) (*types.BlockRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	row := db.conn.QueryRow(`
SELECT run_id, block_index, byte_offset, checksum
FROM blocks
WHERE run_id = ? AND block_index = ?`, runID, int64(index))
	b, err := scanBlock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: block %d of run %s", ErrBlockNotFound, index, runID)
		}
		return nil, fmt.Errorf("failed to get block %d of run %s: %w", index, runID, err)
	}
	return b, nil
}

// GetTableInfo returns the row count of each catalog table
func (db *DB) GetTableInfo() ([]types.TableInfo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var tables []types.TableInfo
	for _, name := range []string{types.TableRuns, types.TableBlocks} {
		var count int
		if err := db.conn.QueryRow("SELECT COUNT(*) FROM " + name).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to get count for table %s: %w", name, err)
		}
		tables = append(tables, types.TableInfo{
			Name:     name,
			RowCount: count,
		})
	}
	return tables, nil
}

// DeleteAllRuns removes every run and block record (for Reset)
func (db *DB) DeleteAllRuns() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.conn.Exec("DELETE FROM blocks"); err != nil {
		return fmt.Errorf("failed to delete from blocks table: %w", err)
	}
	if _, err := db.conn.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("failed to delete from runs table: %w", err)
	}
	return nil
}
