// Package extractor pulls structured scheme fields out of unstructured
// crawled or PDF text using ordered pattern cascades. The heuristics are
// deliberately kept as data (pattern lists) so they can be extended and
// tested in isolation.
package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field names a scalar scheme attribute extractable from raw text.
type Field int

const (
	FieldSchemeName Field = iota
	FieldSubsidyAmount
)

// ListField names a list-valued scheme attribute.
type ListField int

const (
	ListEligibility ListField = iota
	ListBenefits
	ListDocumentsRequired
)

// maxListItems caps every extracted list. This is a response-size control,
// not a correctness bound.
const maxListItems = 5

// A capture pattern yields group 1 when the pattern has a group, else the
// whole match.
type capture struct {
	re *regexp.Regexp
}

func (c capture) find(text string) (string, bool) {
	match := c.re.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	if len(match) > 1 && match[1] != "" {
		return strings.TrimSpace(match[1]), true
	}
	return strings.TrimSpace(match[0]), true
}

func (c capture) findAll(text string) []string {
	var out []string
	for _, match := range c.re.FindAllStringSubmatch(text, -1) {
		value := match[0]
		if len(match) > 1 && match[1] != "" {
			value = match[1]
		}
		value = strings.TrimSpace(value)
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}

var scalarPatterns = map[Field][]capture{
	FieldSchemeName: {
		{regexp.MustCompile(`(?i)(?:scheme|yojana|programme|program):\s*([^.\n]+)`)},
		{regexp.MustCompile(`(?i)([A-Z][^.\n]*(?:scheme|yojana|programme|program)[^.\n]*)`)},
		{regexp.MustCompile(`(?i)(?:under|through)\s+([^.\n]*(?:scheme|yojana|programme|program)[^.\n]*)`)},
	},
	FieldSubsidyAmount: {
		{regexp.MustCompile(`(?i)subsidy[:\s]*([^.\n]*(?:₹|rs|rupee)[^.\n]*)`)},
		{regexp.MustCompile(`(?i)(?:₹|rs\.?)\s*([0-9,]+(?:\.[0-9]+)?)`)},
		{regexp.MustCompile(`(?i)([0-9]+%[^.\n]*subsidy)`)},
		{regexp.MustCompile(`(?i)up\s+to[:\s]*(₹[^.\n]+)`)},
		{regexp.MustCompile(`(?i)maximum[:\s]*(₹[^.\n]+)`)},
	},
}

var listPatterns = map[ListField][]capture{
	ListEligibility: {
		{regexp.MustCompile(`(?i)eligibility[:\s]*([^.\n]+)`)},
		{regexp.MustCompile(`(?i)eligible[:\s]*([^.\n]+)`)},
		{regexp.MustCompile(`(?i)(?:for|applicable to)[:\s]*([^.\n]+farmer[^.\n]*)`)},
		{regexp.MustCompile(`(?i)(?:small|marginal|large)\s+farmers?`)},
		{regexp.MustCompile(`(?i)land\s+holding[:\s]*([^.\n]+)`)},
	},
	ListBenefits: {
		{regexp.MustCompile(`(?i)benefits?[:\s]*([^.\n]+)`)},
		{regexp.MustCompile(`(?i)subsidy[:\s]*([^.\n]+)`)},
		{regexp.MustCompile(`₹[0-9,]+[^.\n]*`)},
	},
	ListDocumentsRequired: {
		{regexp.MustCompile(`(?i)documents?\s+required[:\s]*([^.\n]+)`)},
		{regexp.MustCompile(`(?i)required\s+documents?[:\s]*([^.\n]+)`)},
		{regexp.MustCompile(`(?i)(?:aadhaar|land\s+record|bank\s+details|income\s+certificate)`)},
	},
}

// ExtractField tries each pattern in order; first match wins.
func ExtractField(text string, field Field) (string, bool) {
	for _, pattern := range scalarPatterns[field] {
		if value, ok := pattern.find(text); ok {
			return value, true
		}
	}
	return "", false
}

// ExtractList collects matches across all patterns for the field,
// deduplicates them case-insensitively preserving first-seen order, and caps
// the result.
func ExtractList(text string, field ListField) []string {
	var items []string
	for _, pattern := range listPatterns[field] {
		items = append(items, pattern.findAll(text)...)
	}
	return dedupeAndCap(items, maxListItems)
}

var applicationAnchorText = regexp.MustCompile(`(?i)apply|application|register`)

// ApplicationLink returns the href of the first anchor whose text suggests an
// application entry point.
func ApplicationLink(doc *goquery.Document) (string, bool) {
	link := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !applicationAnchorText.MatchString(sel.Text()) {
			return true
		}
		href, exists := sel.Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			return true
		}
		link = href
		return false
	})
	return link, link != ""
}

// ParseListItems extracts bulleted or numbered items from a text section,
// for PDF sections where fields arrive as enumerations.
var listItemPrefix = regexp.MustCompile(`^(?:[•\-*]|\d+[.)]|[a-z][.)])\s+`)

func ParseListItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if loc := listItemPrefix.FindStringIndex(line); loc != nil {
			item := strings.TrimSpace(line[loc[1]:])
			if len(item) > 5 {
				items = append(items, item)
			}
		}
	}
	return dedupeAndCap(items, maxListItems)
}

func dedupeAndCap(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
