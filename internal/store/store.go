// Package store implements the SQLite-backed document and scheme stores.
// A single connection serves both tables; bulk writes are serialized and
// rebuild the in-memory corpus statistics used for TF-IDF ranking.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/krishimitra/krishirag/internal/ranking"
	"github.com/krishimitra/krishirag/internal/tokenizer"
)

type Store struct {
	db      *sql.DB
	tok     *tokenizer.Tokenizer
	scorer  *ranking.Scorer

	// statsMu guards the corpus stats snapshot. Readers take RLock for the
	// duration of a scoring pass; rebuilds swap in a fresh snapshot under Lock.
	statsMu sync.RWMutex
	stats   *ranking.CorpusStats

	// writeMu serializes bulk writes; the connection is not safe for
	// unmanaged concurrent writers.
	writeMu sync.Mutex
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	tok := tokenizer.NewTokenizer()
	s := &Store{
		db:      db,
		tok:     tok,
		scorer:  ranking.NewScorer(tok),
		stats:   ranking.NewCorpusStats(),
	}

	if err := s.rebuildStats(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Stats reports row counts for both stores.
type Stats struct {
	TotalDocuments int `json:"total_documents"`
	TotalSchemes   int `json:"total_schemes"`
}

func (s *Store) Stats() (Stats, error) {
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&st.TotalDocuments); err != nil {
		return st, fmt.Errorf("failed to count documents: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM schemes").Scan(&st.TotalSchemes); err != nil {
		return st, fmt.Errorf("failed to count schemes: %w", err)
	}
	return st, nil
}

// Backup writes a consistent snapshot of the database to destPath.
func (s *Store) Backup(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("failed to back up store to %s: %w", destPath, err)
	}
	return nil
}

// PruneOlderThan deletes documents indexed before cutoff from the row table
// and the full-text mirror, then rebuilds corpus stats. Returns the number of
// documents removed. Schemes are upserted in place and are not pruned.
func (s *Store) PruneOlderThan(cutoff time.Time) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cutoffStr := cutoff.UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin prune transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM documents_fts WHERE id IN (SELECT id FROM documents WHERE created_at < ?)",
		cutoffStr,
	); err != nil {
		return 0, fmt.Errorf("failed to prune full-text rows: %w", err)
	}

	result, err := tx.Exec("DELETE FROM documents WHERE created_at < ?", cutoffStr)
	if err != nil {
		return 0, fmt.Errorf("failed to prune documents: %w", err)
	}

	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune: %w", err)
	}

	if err := s.rebuildStats(); err != nil {
		return int(pruned), err
	}
	return int(pruned), nil
}

// rebuildStats recomputes document frequencies over the full corpus and swaps
// the snapshot in atomically. O(corpus), called only after bulk writes.
func (s *Store) rebuildStats() error {
	rows, err := s.db.Query("SELECT content FROM documents")
	if err != nil {
		return fmt.Errorf("failed to read corpus for stats rebuild: %w", err)
	}
	defer rows.Close()

	fresh := ranking.NewCorpusStats()
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return fmt.Errorf("failed to scan document content: %w", err)
		}
		fresh.AddDocument(s.tok.Tokenize(content))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating corpus: %w", err)
	}

	s.statsMu.Lock()
	s.stats = fresh
	s.statsMu.Unlock()

	return nil
}

// CorpusStats returns the current statistics snapshot.
func (s *Store) CorpusStats() *ranking.CorpusStats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}
