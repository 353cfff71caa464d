package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/krishimitra/krishirag/internal/extractor"
	"github.com/krishimitra/krishirag/internal/store"
)

// maxDescriptionChars caps the scheme description taken from page content.
const maxDescriptionChars = 500

// Normalized is the output of a collection run, ready to be written to
// the store.
type Normalized struct {
	Documents []store.Document
	Schemes   []store.Scheme
}

// DocumentID derives a stable document id from chunk content and source
// URL, so re-indexing the same page updates rows instead of duplicating
// them.
func DocumentID(chunk, url string) string {
	sum := sha256.Sum256([]byte(chunk + url))
	return "doc_" + hex.EncodeToString(sum[:])[:16]
}

// Normalize chunks each record into documents and promotes records with
// enough structure into scheme rows.
func Normalize(records []Record, chunker *extractor.Chunker) Normalized {
	var out Normalized

	for _, record := range records {
		category := extractor.CategoryOf(record.Content)

		chunks := chunker.Chunk(record.Content)
		for i, chunk := range chunks {
			out.Documents = append(out.Documents, store.Document{
				ID:      DocumentID(chunk, record.URL),
				Title:   chunkTitle(record.Title, i, len(chunks)),
				Content: chunk,
				Metadata: store.Metadata{
					URL:         record.URL,
					SchemeName:  record.SchemeName,
					State:       record.State,
					Category:    category,
					SourceType:  record.SourceType,
					ChunkIndex:  i,
					TotalChunks: len(chunks),
				},
				Collection: collectionFor(record),
			})
		}

		if scheme, ok := promoteScheme(record, category); ok {
			out.Schemes = append(out.Schemes, scheme)
		}
	}

	return out
}

func chunkTitle(title string, index, total int) string {
	if total <= 1 {
		return title
	}
	return fmt.Sprintf("%s (part %d/%d)", title, index+1, total)
}

func collectionFor(record Record) string {
	switch {
	case record.SourceType == "pdf":
		return "pdf"
	case record.SourceCat == "state":
		return "state"
	default:
		return "central"
	}
}

// promoteScheme converts a record into a structured scheme row. Only
// records with a recognized scheme name and at least one eligibility
// criterion are trusted enough to promote.
func promoteScheme(record Record, category string) (store.Scheme, bool) {
	if record.SchemeName == "" || len(record.Eligibility) == 0 {
		return store.Scheme{}, false
	}

	description := extractor.TruncateText(record.Content, maxDescriptionChars)

	links := []string{record.URL}
	if record.ApplicationLink != "" {
		links = []string{record.ApplicationLink}
	}

	scheme := store.Scheme{
		ID:               store.SchemeID(record.SchemeName, record.SourceCat, record.State),
		Name:             record.SchemeName,
		Description:      description,
		Eligibility:      record.Eligibility,
		Benefits:         record.Benefits,
		SubsidyAmount:    record.SubsidyAmount,
		ApplicationLinks: links,
		State:            record.State,
		Category:         category,
		Status:           "active",
		Metadata: map[string]string{
			"source_url":  record.URL,
			"source_type": record.SourceType,
		},
	}
	if len(record.DocumentsRequired) > 0 {
		scheme.Metadata["documents_required"] = strings.Join(record.DocumentsRequired, "; ")
	}

	return scheme, true
}
