package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/krishimitra/krishirag/internal/tokenizer"
)

// Metadata carries the provenance fields attached to every indexed document.
type Metadata struct {
	URL         string `json:"url,omitempty"`
	SchemeName  string `json:"scheme_name,omitempty"`
	State       string `json:"state,omitempty"`
	Category    string `json:"category,omitempty"`
	SourceType  string `json:"source_type,omitempty"`
	ChunkIndex  int    `json:"chunk_index,omitempty"`
	TotalChunks int    `json:"total_chunks,omitempty"`
}

// Document is one indexed unit of crawled or extracted content.
// Collection is one of "general", "central", "state" or "pdf".
type Document struct {
	ID         string
	Title      string
	Content    string
	Metadata   Metadata
	Collection string
	CreatedAt  time.Time
}

// SearchResult is a document candidate with its TF-IDF similarity to a query.
type SearchResult struct {
	Content    string
	Metadata   Metadata
	Similarity float64
	Title      string
	Collection string
	ID         string
}

// StoreDocuments upserts each document by id into the row table and the
// full-text mirror, then rebuilds corpus stats. Storing the same document
// twice leaves exactly one row and one full-text entry.
func (s *Store) StoreDocuments(docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsertStmt, err := tx.Prepare(`
		INSERT INTO documents (id, title, content, metadata, collection_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			metadata = excluded.metadata,
			collection_type = excluded.collection_type,
			created_at = excluded.created_at
	`)
	if err != nil {
		return err
	}
	defer upsertStmt.Close()

	deleteFTSStmt, err := tx.Prepare("DELETE FROM documents_fts WHERE id = ?")
	if err != nil {
		return err
	}
	defer deleteFTSStmt.Close()

	insertFTSStmt, err := tx.Prepare("INSERT INTO documents_fts (id, title, content) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertFTSStmt.Close()

	for _, doc := range docs {
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", doc.ID, err)
		}

		collection := doc.Collection
		if collection == "" {
			collection = "general"
		}
		createdAt := doc.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		if _, err := upsertStmt.Exec(
			doc.ID, doc.Title, doc.Content, string(metadata),
			collection, createdAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("failed to upsert document %s: %w", doc.ID, err)
		}

		if _, err := deleteFTSStmt.Exec(doc.ID); err != nil {
			return fmt.Errorf("failed to clear full-text row for %s: %w", doc.ID, err)
		}
		if _, err := insertFTSStmt.Exec(doc.ID, doc.Title, doc.Content); err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit documents: %w", err)
	}

	return s.rebuildStats()
}

// SearchSimilar retrieves full-text candidates for the query and re-ranks
// them by TF-IDF similarity. Filters are equality constraints on the
// metadata keys state, category and source_type; unknown keys are ignored.
// An empty query falls back to the most recently indexed documents.
func (s *Store) SearchSimilar(query string, topK int, filters map[string]string) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 10
	}

	queryTerms := s.tok.Tokenize(query)
	if len(queryTerms) == 0 {
		return s.recentDocuments(topK, filters)
	}

	candidates, err := s.ftsCandidates(queryTerms, 2*topK, filters)
	if err != nil {
		return nil, err
	}

	s.statsMu.RLock()
	stats := s.stats
	s.statsMu.RUnlock()

	for i := range candidates {
		candidates[i].Similarity = s.scorer.Score(stats, queryTerms, candidates[i].Content)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

// ftsCandidates runs the OR-of-stemmed-prefix match over title+content.
func (s *Store) ftsCandidates(queryTerms []string, limit int, filters map[string]string) ([]SearchResult, error) {
	match := s.buildMatchQuery(queryTerms)

	rows, err := s.db.Query(`
		SELECT d.id, d.title, d.content, d.metadata, d.collection_type
		FROM documents_fts f
		JOIN documents d ON d.id = f.id
		WHERE documents_fts MATCH ?
	`, match)
	if err != nil {
		return nil, fmt.Errorf("failed to run full-text search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		result, err := scanSearchResult(rows)
		if err != nil {
			return nil, err
		}
		if !matchesFilters(result.Metadata, filters) {
			continue
		}
		results = append(results, result)
		if len(results) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}
	return results, nil
}

// buildMatchQuery stems each term and adds a prefix wildcard, mirroring the
// porter tokenizer inside the index.
func (s *Store) buildMatchQuery(queryTerms []string) string {
	parts := make([]string, 0, len(queryTerms))
	for _, term := range queryTerms {
		parts = append(parts, fmt.Sprintf("%s*", tokenizer.Stem(term)))
	}
	return strings.Join(parts, " OR ")
}

// recentDocuments is the degenerate ordering for empty queries.
func (s *Store) recentDocuments(topK int, filters map[string]string) ([]SearchResult, error) {
	rows, err := s.db.Query(`
		SELECT id, title, content, metadata, collection_type
		FROM documents
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		result, err := scanSearchResult(rows)
		if err != nil {
			return nil, err
		}
		if !matchesFilters(result.Metadata, filters) {
			continue
		}
		results = append(results, result)
		if len(results) >= topK {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent documents: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSearchResult(row rowScanner) (SearchResult, error) {
	var result SearchResult
	var metadata string
	if err := row.Scan(&result.ID, &result.Title, &result.Content, &metadata, &result.Collection); err != nil {
		return result, fmt.Errorf("failed to scan document row: %w", err)
	}
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &result.Metadata); err != nil {
			return result, fmt.Errorf("failed to decode metadata for %s: %w", result.ID, err)
		}
	}
	return result, nil
}

func matchesFilters(md Metadata, filters map[string]string) bool {
	for key, want := range filters {
		switch key {
		case "state":
			if md.State != want {
				return false
			}
		case "category":
			if md.Category != want {
				return false
			}
		case "source_type":
			if md.SourceType != want {
				return false
			}
		default:
			// Unknown filter keys are ignored.
		}
	}
	return true
}
