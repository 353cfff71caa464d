package ranking_test

import (
	"math"
	"testing"

	"github.com/krishimitra/krishirag/internal/ranking"
	"github.com/krishimitra/krishirag/internal/tokenizer"
)

func newScorer() *ranking.Scorer {
	return ranking.NewScorer(tokenizer.NewTokenizer())
}

func buildStats(docs []string) *ranking.CorpusStats {
	tok := tokenizer.NewTokenizer()
	stats := ranking.NewCorpusStats()
	for _, doc := range docs {
		stats.AddDocument(tok.Tokenize(doc))
	}
	return stats
}

func TestScoreEmptyQuery(t *testing.T) {
	stats := buildStats([]string{"irrigation subsidy scheme"})

	if got := newScorer().Score(stats, nil, "irrigation subsidy"); got != 0 {
		t.Errorf("Expected 0 for empty query, got %f", got)
	}
}

func TestScoreEmptyCorpus(t *testing.T) {
	stats := ranking.NewCorpusStats()

	if got := newScorer().Score(stats, []string{"irrigation"}, "irrigation subsidy"); got != 0 {
		t.Errorf("Expected 0 for empty corpus, got %f", got)
	}
}

func TestScoreEmptyDocument(t *testing.T) {
	stats := buildStats([]string{"irrigation subsidy scheme"})

	if got := newScorer().Score(stats, []string{"irrigation"}, ""); got != 0 {
		t.Errorf("Expected 0 for empty document, got %f", got)
	}
}

func TestScoreMatchingTerm(t *testing.T) {
	docs := []string{
		"drip irrigation subsidy scheme",
		"crop insurance premium details",
		"seed distribution programme details",
		"fertilizer quota allocation notice",
	}
	stats := buildStats(docs)

	score := newScorer().Score(stats, []string{"irrigation"}, docs[0])
	if score <= 0 {
		t.Errorf("Expected positive score for matching rare term, got %f", score)
	}
}

func TestScoreExactValue(t *testing.T) {
	// Four documents, "irrigation" appears in one. The scored document has
	// four tokens, one of which is the query term.
	docs := []string{
		"drip irrigation subsidy scheme",
		"crop insurance premium details",
		"seed distribution programme notice",
		"fertilizer quota allocation notice",
	}
	stats := buildStats(docs)

	got := newScorer().Score(stats, []string{"irrigation"}, docs[0])
	want := (1.0 / 4.0) * math.Log(4.0/2.0)

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %f, want %f", got, want)
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// Documents of equal length; A mentions the query term more often.
	docA := "irrigation irrigation subsidy scheme notice details"
	docB := "irrigation pump subsidy scheme notice details"

	docs := []string{
		docA,
		docB,
		"crop insurance premium amounts",
		"seed distribution programme update",
		"fertilizer quota allocation update",
	}
	stats := buildStats(docs)

	scorer := newScorer()
	query := []string{"irrigation"}

	scoreA := scorer.Score(stats, query, docA)
	scoreB := scorer.Score(stats, query, docB)

	if scoreA < scoreB {
		t.Errorf("Expected score(A) >= score(B), got %f < %f", scoreA, scoreB)
	}
}

func TestScoreMultiTermAverage(t *testing.T) {
	docs := []string{
		"drip irrigation subsidy scheme",
		"crop insurance premium details",
		"seed distribution programme notice",
	}
	stats := buildStats(docs)

	scorer := newScorer()

	single := scorer.Score(stats, []string{"irrigation"}, docs[0])
	// Adding a term absent from the document halves the mean.
	double := scorer.Score(stats, []string{"irrigation", "insurance"}, docs[0])

	if math.Abs(double-single/2) > 1e-9 {
		t.Errorf("Expected %f, got %f", single/2, double)
	}
}

func TestAddDocumentCountsDistinctTerms(t *testing.T) {
	stats := ranking.NewCorpusStats()
	stats.AddDocument([]string{"irrigation", "irrigation", "subsidy"})
	stats.AddDocument([]string{"irrigation"})

	if stats.TotalDocuments != 2 {
		t.Errorf("TotalDocuments = %d, want 2", stats.TotalDocuments)
	}
	if stats.DocumentFrequency["irrigation"] != 2 {
		t.Errorf("df[irrigation] = %d, want 2", stats.DocumentFrequency["irrigation"])
	}
	if stats.DocumentFrequency["subsidy"] != 1 {
		t.Errorf("df[subsidy] = %d, want 1", stats.DocumentFrequency["subsidy"])
	}

	// df never exceeds the corpus size.
	for term, df := range stats.DocumentFrequency {
		if df > stats.TotalDocuments {
			t.Errorf("df[%s] = %d exceeds total %d", term, df, stats.TotalDocuments)
		}
	}
}
