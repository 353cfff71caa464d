package store

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Scheme is a curated record describing one government subsidy or programme.
// State is empty for central/nationwide schemes; a non-empty state scopes the
// scheme to that region. Status is one of "active", "closed" or "upcoming".
type Scheme struct {
	ID               string
	Name             string
	Description      string
	Eligibility      []string
	Benefits         []string
	SubsidyAmount    string
	ApplicationLinks []string
	State            string
	Category         string
	Status           string
	Metadata         map[string]string
	CreatedAt        time.Time
}

// SchemeResult pairs a scheme with its relevance to a query.
type SchemeResult struct {
	Scheme
	RelevanceScore float64
}

// SchemeID derives the stable upsert key from name, implementing agency and
// state, so re-indexing the same scheme overwrites in place.
func SchemeID(name, agency, state string) string {
	if state == "" {
		state = "central"
	}
	sum := sha256.Sum256([]byte(name + "_" + agency + "_" + state))
	return fmt.Sprintf("scheme_%x", sum[:4])
}

// StoreScheme upserts the scheme by id. Last write wins; there is no
// versioning.
func (s *Store) StoreScheme(scheme Scheme) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if scheme.ID == "" {
		scheme.ID = SchemeID(scheme.Name, "", scheme.State)
	}
	if scheme.Status == "" {
		scheme.Status = "active"
	}
	createdAt := scheme.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	eligibility, err := json.Marshal(orEmpty(scheme.Eligibility))
	if err != nil {
		return fmt.Errorf("failed to marshal eligibility: %w", err)
	}
	benefits, err := json.Marshal(orEmpty(scheme.Benefits))
	if err != nil {
		return fmt.Errorf("failed to marshal benefits: %w", err)
	}
	links, err := json.Marshal(orEmpty(scheme.ApplicationLinks))
	if err != nil {
		return fmt.Errorf("failed to marshal application links: %w", err)
	}
	metadata, err := json.Marshal(scheme.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO schemes
		(id, name, description, eligibility, benefits, subsidy_amount,
		 application_links, state, category, status, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			eligibility = excluded.eligibility,
			benefits = excluded.benefits,
			subsidy_amount = excluded.subsidy_amount,
			application_links = excluded.application_links,
			state = excluded.state,
			category = excluded.category,
			status = excluded.status,
			metadata = excluded.metadata,
			created_at = excluded.created_at
	`, scheme.ID, scheme.Name, scheme.Description, string(eligibility), string(benefits),
		scheme.SubsidyAmount, string(links), scheme.State, scheme.Category, scheme.Status,
		string(metadata), createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert scheme %s: %w", scheme.ID, err)
	}
	return nil
}

// SearchSchemes matches the query as a substring of name or description,
// applies equality filters on state, category and status, and ranks by a
// cheap additive heuristic. Scheme records are short structured text, so
// full TF-IDF is unnecessary overhead here.
func (s *Store) SearchSchemes(query string, filters map[string]string) ([]SchemeResult, error) {
	sql := "SELECT id, name, description, eligibility, benefits, subsidy_amount, application_links, state, category, status, metadata, created_at FROM schemes WHERE 1=1"
	var params []any

	if query != "" {
		sql += " AND (name LIKE ? OR description LIKE ?)"
		pattern := "%" + query + "%"
		params = append(params, pattern, pattern)
	}

	for _, key := range []string{"state", "category", "status"} {
		if value, ok := filters[key]; ok && value != "" {
			sql += " AND " + key + " = ?"
			params = append(params, value)
		}
	}

	sql += " ORDER BY created_at DESC LIMIT 20"

	rows, err := s.db.Query(sql, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to search schemes: %w", err)
	}
	defer rows.Close()

	var results []SchemeResult
	for rows.Next() {
		var sr SchemeResult
		var eligibility, benefits, links, metadata, createdAt string
		if err := rows.Scan(&sr.ID, &sr.Name, &sr.Description, &eligibility, &benefits,
			&sr.SubsidyAmount, &links, &sr.State, &sr.Category, &sr.Status,
			&metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan scheme row: %w", err)
		}

		if err := json.Unmarshal([]byte(eligibility), &sr.Eligibility); err != nil {
			return nil, fmt.Errorf("failed to decode eligibility for %s: %w", sr.ID, err)
		}
		if err := json.Unmarshal([]byte(benefits), &sr.Benefits); err != nil {
			return nil, fmt.Errorf("failed to decode benefits for %s: %w", sr.ID, err)
		}
		if err := json.Unmarshal([]byte(links), &sr.ApplicationLinks); err != nil {
			return nil, fmt.Errorf("failed to decode application links for %s: %w", sr.ID, err)
		}
		if metadata != "" && metadata != "null" {
			if err := json.Unmarshal([]byte(metadata), &sr.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode metadata for %s: %w", sr.ID, err)
			}
		}
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			sr.CreatedAt = parsed
		}

		sr.RelevanceScore = schemeRelevance(query, sr.Name, sr.Description)
		results = append(results, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schemes: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	return results, nil
}

// schemeRelevance is the weighted heuristic: whole-query substring in the
// name +2.0 and in the description +1.5, then +0.5 per query word in the
// name and +0.3 per word in the description. Additive, uncapped.
func schemeRelevance(query, name, description string) float64 {
	queryLower := strings.ToLower(query)
	nameLower := strings.ToLower(name)
	descLower := strings.ToLower(description)

	score := 0.0
	if queryLower != "" {
		if strings.Contains(nameLower, queryLower) {
			score += 2.0
		}
		if strings.Contains(descLower, queryLower) {
			score += 1.5
		}
	}

	for _, word := range strings.Fields(queryLower) {
		if strings.Contains(nameLower, word) {
			score += 0.5
		}
		if strings.Contains(descLower, word) {
			score += 0.3
		}
	}
	return score
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
