package tokenizer

import (
	"github.com/kljensen/snowball"
)

// Stem reduces a word to its Porter stem so full-text match queries line
// up with the porter-tokenized index. TF-IDF scoring works on unstemmed
// tokens. Words snowball cannot handle come back unchanged.
func Stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil {
		return word
	}
	return stemmed
}
