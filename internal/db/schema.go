package db

import (
	"github.com/Project-Sylos/Helodata/internal/types"
)

// BuildRunsTableSQL returns the DDL for the runs table
func BuildRunsTableSQL() string {
	return `
CREATE TABLE IF NOT EXISTS ` + types.TableRuns + ` (
	id           VARCHAR PRIMARY KEY,
	output_path  VARCHAR NOT NULL,
	block_size   INTEGER NOT NULL,
	block_count  BIGINT NOT NULL,
	total_bytes  BIGINT NOT NULL,
	checksum     VARCHAR NOT NULL,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP NOT NULL
)`
}

// BuildBlocksTableSQL returns the DDL for the per-block checksum table
func BuildBlocksTableSQL() string {
	return `
CREATE TABLE IF NOT EXISTS ` + types.TableBlocks + ` (
	run_id       VARCHAR NOT NULL,
	block_index  BIGINT NOT NULL,
	byte_offset  BIGINT NOT NULL,
	checksum     VARCHAR NOT NULL,
	PRIMARY KEY (run_id, block_index)
)`
}

// BuildIndexesSQL returns the index statements, one per element
func BuildIndexesSQL() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_blocks_run_id ON ` + types.TableBlocks + ` (run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON ` + types.TableRuns + ` (started_at)`,
	}
}
