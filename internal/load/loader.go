// Package load persists cleaned and derived tables: upsert-by-natural-key
// into the relational sink, and delimited text plus columnar binary files
// under the processed-data directory. Writes to the sink are transactional
// per call; an empty input table is always a no-op, never an error.
package load

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Loader writes to the relational sink and the processed-data directory.
type Loader struct {
	Pool      *pgxpool.Pool
	Dir       string // processed-data directory for file sinks
	ChunkSize int    // rows per statement for bulk upserts
	Log       zerolog.Logger
}

// New constructs a Loader. A zero chunk size falls back to 1000.
func New(pool *pgxpool.Pool, dir string, chunkSize int, log zerolog.Logger) *Loader {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return &Loader{Pool: pool, Dir: dir, ChunkSize: chunkSize, Log: log}
}

// PersistenceError reports a failed write to a sink table. The whole
// transactional unit was rolled back; no partial writes are observable.
type PersistenceError struct {
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %s", e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
