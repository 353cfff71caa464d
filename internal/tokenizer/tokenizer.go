package tokenizer

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-z0-9_]+`)

// Tokenizer normalizes free text into index terms. The same instance must be
// used at index time and query time so that term statistics line up.
type Tokenizer struct {
	StopWords map[string]bool
	minLength int
	maxLength int
}

func NewTokenizer() *Tokenizer {
	return &Tokenizer{
		StopWords: defaultStopWords(),
		minLength: 3,
		maxLength: 50,
	}
}

// Tokenize lowercases the text, extracts word tokens and drops stop words
// and tokens shorter than three characters.
func (t *Tokenizer) Tokenize(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if t.StopWords[word] {
			continue
		}
		if len(word) < t.minLength || len(word) > t.maxLength {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func (t *Tokenizer) TokenizeToFrequency(text string) map[string]int {
	freq := make(map[string]int)
	for _, token := range t.Tokenize(text) {
		freq[token]++
	}
	return freq
}

func defaultStopWords() map[string]bool {
	words := []string{
		// Articles
		"the",

		// Prepositions
		"off", "for", "with", "about", "against", "between",
		"into", "through", "during", "before", "after", "above", "below",
		"from", "down", "out", "over", "under",

		// Conjunctions
		"and", "but", "while", "because", "until",
		"than", "nor", "yet",

		// Common verbs
		"are", "was", "were", "been", "being",
		"have", "has", "had", "having",
		"does", "did", "doing",
		"will", "would", "should", "could", "can", "may", "might", "must",

		// Other common words
		"this", "that", "these", "those",
		"what", "which", "who", "whom", "whose", "when", "where", "why", "how",
		"all", "each", "every", "both", "few", "more", "most", "other", "some", "such",
		"not", "only", "own", "same", "then", "there", "too", "very",
	}

	stopWords := make(map[string]bool, len(words))
	for _, word := range words {
		stopWords[word] = true
	}
	return stopWords
}
