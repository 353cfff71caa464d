package tokenizer_test

import (
	"reflect"
	"testing"

	"github.com/krishimitra/krishirag/internal/tokenizer"
)

func TestTokenize(t *testing.T) {
	tok := tokenizer.NewTokenizer()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "basic text",
			input:    "Drip irrigation subsidy for small farmers",
			expected: []string{"drip", "irrigation", "subsidy", "small", "farmers"},
		},
		{
			name:     "with punctuation",
			input:    "Eligibility: small & marginal farmers.",
			expected: []string{"eligibility", "small", "marginal", "farmers"},
		},
		{
			name:     "short tokens removed",
			input:    "PM KISAN is a scheme by GoI",
			expected: []string{"kisan", "scheme", "goi"},
		},
		{
			name:     "stop words removed",
			input:    "the scheme and the subsidy for all",
			expected: []string{"scheme", "subsidy"},
		},
		{
			name:     "numbers kept",
			input:    "subsidy of 50000 rupees per hectare",
			expected: []string{"subsidy", "50000", "rupees", "per", "hectare"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	tok := tokenizer.NewTokenizer()
	input := "Pradhan Mantri Krishi Sinchayee Yojana micro irrigation"

	first := tok.Tokenize(input)
	second := tok.Tokenize(input)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Tokenize is not deterministic: %v vs %v", first, second)
	}
}

func TestTokenizeToFrequency(t *testing.T) {
	tok := tokenizer.NewTokenizer()

	freq := tok.TokenizeToFrequency("irrigation subsidy irrigation scheme irrigation")

	if freq["irrigation"] != 3 {
		t.Errorf("Expected irrigation count 3, got %d", freq["irrigation"])
	}
	if freq["subsidy"] != 1 {
		t.Errorf("Expected subsidy count 1, got %d", freq["subsidy"])
	}
	if freq["scheme"] != 1 {
		t.Errorf("Expected scheme count 1, got %d", freq["scheme"])
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		word     string
		expected string
	}{
		{"farmers", "farmer"},
		{"irrigation", "irrig"},
		{"subsidies", "subsidi"},
		{"schemes", "scheme"},
		{"running", "run"},
	}

	for _, tt := range tests {
		got := tokenizer.Stem(tt.word)
		if got != tt.expected {
			t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.expected)
		}
	}
}
