package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the target chunk length in characters.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the number of trailing words carried into the next
// chunk.
const DefaultChunkOverlap = 50

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Chunker splits long text into indexable units at sentence boundaries so
// that no single unit spans unrelated scheme topics.
type Chunker struct {
	chunkSize int
	overlap   int
}

func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk accumulates sentences until the target size is reached, then starts
// the next chunk with a word-level overlap from the previous one. Sentence
// fragments of ten characters or fewer are discarded.
func (c *Chunker) Chunk(text string) []string {
	sentences := c.splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	current := ""

	for _, sentence := range sentences {
		if len(current)+len(sentence) > c.chunkSize && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))

			words := strings.Fields(current)
			if len(words) > c.overlap {
				words = words[len(words)-c.overlap:]
			}
			current = strings.Join(words, " ") + " " + sentence
		} else {
			current += " " + sentence
		}
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, trimmed)
	}
	return chunks
}

// TruncateText shortens s to at most limit bytes, backing up so a
// multi-byte rune is never split. Scheme pages mix ASCII with rupee
// signs and Devanagari, so a plain byte slice can cut mid-rune.
func TruncateText(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func (c *Chunker) splitSentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) > 10 {
			sentences = append(sentences, part)
		}
	}
	return sentences
}
