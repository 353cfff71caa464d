package indexer_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/krishimitra/krishirag/internal/extractor"
	"github.com/krishimitra/krishirag/internal/indexer"
)

func TestDocumentIDStable(t *testing.T) {
	a := indexer.DocumentID("chunk text", "https://example.gov.in/scheme")
	b := indexer.DocumentID("chunk text", "https://example.gov.in/scheme")
	if a != b {
		t.Errorf("same inputs produced different ids: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "doc_") {
		t.Errorf("id missing doc_ prefix: %s", a)
	}

	c := indexer.DocumentID("chunk text", "https://example.gov.in/other")
	if a == c {
		t.Errorf("different urls produced the same id: %s", a)
	}
}

func TestNormalizeChunksDocuments(t *testing.T) {
	long := strings.Repeat("Farmers can claim drip irrigation subsidy under the scheme. ", 30)

	records := []indexer.Record{
		{
			URL:        "https://agricoop.nic.in/schemes",
			Title:      "Irrigation Schemes",
			Content:    long,
			State:      "",
			SourceCat:  "central",
			SourceType: "website",
		},
	}

	out := indexer.Normalize(records, extractor.NewChunker(0, 0))

	if len(out.Documents) < 2 {
		t.Fatalf("expected long content to produce multiple chunks, got %d", len(out.Documents))
	}

	for i, doc := range out.Documents {
		if doc.Metadata.ChunkIndex != i {
			t.Errorf("chunk %d: got index %d", i, doc.Metadata.ChunkIndex)
		}
		if doc.Metadata.TotalChunks != len(out.Documents) {
			t.Errorf("chunk %d: got total %d, want %d", i, doc.Metadata.TotalChunks, len(out.Documents))
		}
		if doc.Metadata.Category != "irrigation" {
			t.Errorf("chunk %d: got category %q, want irrigation", i, doc.Metadata.Category)
		}
		if doc.Collection != "central" {
			t.Errorf("chunk %d: got collection %q", i, doc.Collection)
		}
	}

	if out.Documents[0].Title == out.Documents[1].Title {
		t.Errorf("chunk titles not disambiguated: %q", out.Documents[0].Title)
	}
}

func TestNormalizePromotesScheme(t *testing.T) {
	records := []indexer.Record{
		{
			URL:             "https://horticulture.karnataka.gov.in/subsidy",
			Title:           "Drip Subsidy",
			Content:         "The Drip Irrigation Subsidy Scheme supports micro irrigation adoption across the state with financial assistance for smallholders.",
			SchemeName:      "Drip Irrigation Subsidy Scheme",
			Eligibility:     []string{"Small and marginal farmers"},
			SubsidyAmount:   "55% subsidy",
			ApplicationLink: "https://horticulture.karnataka.gov.in/apply",
			State:           "karnataka",
			SourceCat:       "state",
			SourceType:      "website",
		},
		{
			// No eligibility extracted, so no scheme row.
			URL:        "https://mkisan.gov.in/Home/Schemes",
			Title:      "Scheme Listing",
			Content:    "A general listing page that mentions the Some Yojana without any detail about who qualifies for it at all.",
			SchemeName: "Some Yojana",
			SourceCat:  "central",
			SourceType: "website",
		},
	}

	out := indexer.Normalize(records, extractor.NewChunker(0, 0))

	if len(out.Schemes) != 1 {
		t.Fatalf("expected 1 promoted scheme, got %d", len(out.Schemes))
	}

	scheme := out.Schemes[0]
	if scheme.Name != "Drip Irrigation Subsidy Scheme" {
		t.Errorf("got name %q", scheme.Name)
	}
	if scheme.State != "karnataka" {
		t.Errorf("got state %q", scheme.State)
	}
	if scheme.Status != "active" {
		t.Errorf("got status %q", scheme.Status)
	}
	if len(scheme.ApplicationLinks) != 1 || scheme.ApplicationLinks[0] != "https://horticulture.karnataka.gov.in/apply" {
		t.Errorf("got links %v", scheme.ApplicationLinks)
	}
	if len(scheme.Description) > 500 {
		t.Errorf("description not truncated: %d chars", len(scheme.Description))
	}
}

func TestNormalizeCollections(t *testing.T) {
	records := []indexer.Record{
		{
			URL:        "https://agricoop.nic.in/schemes",
			Title:      "Central Portal",
			Content:    "Central schemes for farmers are listed on this portal page.",
			SourceCat:  "central",
			SourceType: "website",
		},
		{
			URL:        "https://krishi.maharashtra.gov.in/schemes",
			Title:      "State Portal",
			Content:    "State schemes for farmers are listed on this portal page.",
			State:      "maharashtra",
			SourceCat:  "state",
			SourceType: "website",
		},
		{
			URL:        "https://agricoop.nic.in/notification.pdf",
			Title:      "Notification",
			Content:    "A notification circular describing revised assistance rates for cultivators.",
			SourceCat:  "central",
			SourceType: "pdf",
		},
	}

	out := indexer.Normalize(records, extractor.NewChunker(0, 0))

	if len(out.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(out.Documents))
	}
	want := []string{"central", "state", "pdf"}
	for i, doc := range out.Documents {
		if doc.Collection != want[i] {
			t.Errorf("document %d: got collection %q, want %q", i, doc.Collection, want[i])
		}
	}
}

func TestNormalizeDescriptionKeepsValidUTF8(t *testing.T) {
	// A rupee sign straddles the description cut point.
	content := "Pump subsidy rates. " + strings.Repeat("a", 479) + "₹55,000 per unit is sanctioned under the programme."

	records := []indexer.Record{
		{
			URL:         "https://example.gov.in/pump",
			Title:       "Pump Subsidy",
			Content:     content,
			SchemeName:  "Pump Subsidy Scheme",
			Eligibility: []string{"All registered farmers"},
			SourceCat:   "central",
			SourceType:  "website",
		},
	}

	out := indexer.Normalize(records, extractor.NewChunker(0, 0))

	if len(out.Schemes) != 1 {
		t.Fatalf("expected 1 promoted scheme, got %d", len(out.Schemes))
	}
	description := out.Schemes[0].Description
	if !utf8.ValidString(description) {
		t.Error("description is not valid UTF-8")
	}
	if len(description) > 500 {
		t.Errorf("description not truncated: %d bytes", len(description))
	}
}

func TestStateSourcesDeterministic(t *testing.T) {
	first := indexer.StateSources()
	second := indexer.StateSources()

	if len(first) == 0 {
		t.Fatal("no state sources")
	}
	for i := range first {
		if first[i].State != second[i].State {
			t.Fatalf("order differs at %d: %s vs %s", i, first[i].State, second[i].State)
		}
	}
	for i := 1; i < len(first); i++ {
		if first[i-1].State >= first[i].State {
			t.Errorf("states not sorted at %d: %s >= %s", i, first[i-1].State, first[i].State)
		}
	}
}
