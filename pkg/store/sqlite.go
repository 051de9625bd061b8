// Package store keeps a history of comparison runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/compare"
	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/logging"
)

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 20

// SQLiteStore persists runs in a single SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the database at path. ":memory:" keeps everything in
// memory for the lifetime of the store.
func Open(path string, logger logging.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:     db,
		logger: logging.OrNop(logger).With(logging.Component("store")),
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		pdb_path TEXT NOT NULL DEFAULT '',
		chain TEXT NOT NULL DEFAULT '',
		sequence_length INTEGER NOT NULL DEFAULT 0,
		source_a TEXT NOT NULL,
		source_b TEXT NOT NULL,
		ontology_version TEXT NOT NULL DEFAULT '',
		threshold REAL NOT NULL,
		jaccard REAL NOT NULL,
		semantic_avg_sim REAL NOT NULL,
		started_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		result BLOB NOT NULL            -- snappy-compressed JSON, crc32 suffix
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_pdb ON runs(pdb_path);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) checkOpen() error {
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Save stores run, assigning an ID when it has none. Saving an existing ID
// replaces the stored run.
func (s *SQLiteStore) Save(ctx context.Context, run *Run) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return opError("save", run.ID, err)
	}
	if run.Result == nil {
		return opError("save", run.ID, errors.New("run has no result"))
	}
	if run.ID == "" {
		run.ID = NewRunID()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return opError("save", run.ID, ErrInvalidID)
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	blob, err := encodeResult(run.Result)
	if err != nil {
		return opError("save", run.ID, err)
	}

	r := run.Result
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, pdb_path, chain, sequence_length, source_a, source_b, ontology_version,
			 threshold, jaccard, semantic_avg_sim, started_at, created_at, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.PDBPath, run.Chain, run.SequenceLength, r.SourceA, r.SourceB, r.OntologyVersion,
		r.Threshold, r.Jaccard, r.SemanticAvgSim,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.FinishedAt.UTC().Format(time.RFC3339Nano), blob)
	if err != nil {
		return opError("save", run.ID, err)
	}

	s.logger.Debug("run saved",
		logging.RunID(run.ID),
		logging.Int("bytes", len(blob)))
	return nil
}

// Get loads the run with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, opError("get", id, err)
	}

	var (
		run                  Run
		startedAt, createdAt string
		blob                 []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, pdb_path, chain, sequence_length, started_at, created_at, result
		FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.PDBPath, &run.Chain, &run.SequenceLength, &startedAt, &createdAt, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, opError("get", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, opError("get", id, err)
	}

	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, opError("get", id, err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, opError("get", id, err)
	}
	if run.Result, err = decodeResult(blob); err != nil {
		return nil, opError("get", id, err)
	}
	return &run, nil
}

// List returns the most recent runs first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, opError("list", "", err)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pdb_path, source_a, source_b, ontology_version, threshold, jaccard, semantic_avg_sim, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, opError("list", "", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum       Summary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.PDBPath, &sum.SourceA, &sum.SourceB, &sum.OntologyVersion,
			&sum.Threshold, &sum.Jaccard, &sum.SemanticAvgSim, &createdAt); err != nil {
			return nil, opError("list", "", err)
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, opError("list", sum.ID, err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, opError("list", "", err)
	}
	return out, nil
}

// Delete removes a run.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return opError("delete", id, err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return opError("delete", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return opError("delete", id, ErrRunNotFound)
	}
	return nil
}

// Close closes the database. Further calls fail with ErrStoreClosed.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// encodeResult produces snappy(JSON) followed by a big-endian crc32 of the
// compressed bytes.
func encodeResult(r *compare.Result) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarshalFailed, err)
	}
	compressed := snappy.Encode(nil, data)
	return binary.BigEndian.AppendUint32(compressed, crc32.ChecksumIEEE(compressed)), nil
}

func decodeResult(blob []byte) (*compare.Result, error) {
	if len(blob) < 4 {
		return nil, ErrCorruptedResult
	}
	compressed, sum := blob[:len(blob)-4], binary.BigEndian.Uint32(blob[len(blob)-4:])
	if crc32.ChecksumIEEE(compressed) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptedResult)
	}
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedResult, err)
	}
	var r compare.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedResult, err)
	}
	return &r, nil
}
