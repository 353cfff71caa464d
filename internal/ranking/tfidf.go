package ranking

import (
	"math"

	"github.com/krishimitra/krishirag/internal/tokenizer"
)

// CorpusStats holds document-frequency statistics for the whole corpus.
// It is derived state: the document store rebuilds it from scratch after
// every bulk write and swaps it in atomically.
type CorpusStats struct {
	DocumentFrequency map[string]int
	TotalDocuments    int
}

func NewCorpusStats() *CorpusStats {
	return &CorpusStats{
		DocumentFrequency: make(map[string]int),
	}
}

// AddDocument counts each distinct term of the document once.
func (cs *CorpusStats) AddDocument(terms []string) {
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if !seen[term] {
			seen[term] = true
			cs.DocumentFrequency[term]++
		}
	}
	cs.TotalDocuments++
}

// Scorer ranks a document's text against a tokenized query.
type Scorer struct {
	tokenizer *tokenizer.Tokenizer
}

func NewScorer(tok *tokenizer.Tokenizer) *Scorer {
	return &Scorer{tokenizer: tok}
}

// Score computes the mean TF-IDF weight of the query terms over the document.
// tf is the term's share of the document's tokens; idf uses add-one smoothing,
// idf = ln(N / (df+1)), which keeps unseen terms finite and must stay exactly
// this formula for reproducible rankings.
func (s *Scorer) Score(stats *CorpusStats, queryTerms []string, documentText string) float64 {
	if len(queryTerms) == 0 || stats == nil || stats.TotalDocuments == 0 {
		return 0
	}

	docTerms := s.tokenizer.Tokenize(documentText)
	if len(docTerms) == 0 {
		return 0
	}

	docCounts := make(map[string]int, len(docTerms))
	for _, term := range docTerms {
		docCounts[term]++
	}

	score := 0.0
	for _, term := range queryTerms {
		count, ok := docCounts[term]
		if !ok {
			continue
		}

		tf := float64(count) / float64(len(docTerms))
		idf := math.Log(float64(stats.TotalDocuments) / float64(stats.DocumentFrequency[term]+1))
		score += tf * idf
	}

	return score / float64(len(queryTerms))
}
