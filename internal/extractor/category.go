package extractor

import "strings"

// categoryKeywords is checked in order; the first category with a keyword hit
// wins. The same table classifies indexed content and user queries so that
// category filters line up.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"irrigation", []string{"irrigation", "drip", "water", "micro irrigation", "sprinkler"}},
	{"seeds", []string{"seed", "seeds"}},
	{"fertilizers", []string{"fertilizer", "fertiliser"}},
	{"insurance", []string{"insurance", "crop insurance", "fasal bima"}},
	{"subsidy", []string{"subsidy", "subsidies"}},
}

// CategoryOf returns the topical category of the text, or "general" when no
// keyword matches.
func CategoryOf(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.name
			}
		}
	}
	return "general"
}
