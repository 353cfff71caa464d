package store_test

import (
	"testing"

	"github.com/krishimitra/krishirag/internal/store"
)

func seedSchemes(t *testing.T, s *store.Store) {
	t.Helper()

	schemes := []store.Scheme{
		{
			Name:             "PM-KISAN",
			Description:      "Income support of Rs 6000 per year for all landholding farmer families",
			Eligibility:      []string{"all landholding farmer families"},
			Benefits:         []string{"Rs 6000 per year in three installments"},
			ApplicationLinks: []string{"https://pmkisan.gov.in"},
			Category:         "subsidy",
			Status:           "active",
		},
		{
			Name:          "Drip Irrigation Subsidy",
			Description:   "Subsidy for micro irrigation systems for small and marginal farmers",
			Eligibility:   []string{"small farmers", "marginal farmers"},
			SubsidyAmount: "55% of system cost",
			State:         "karnataka",
			Category:      "irrigation",
			Status:        "active",
		},
		{
			Name:        "Old Pump Subsidy",
			Description: "Closed subsidy for diesel pump sets",
			State:       "karnataka",
			Category:    "irrigation",
			Status:      "closed",
		},
	}

	for _, scheme := range schemes {
		if err := s.StoreScheme(scheme); err != nil {
			t.Fatalf("Failed to store scheme %s: %v", scheme.Name, err)
		}
	}
}

func TestStoreSchemeUpsert(t *testing.T) {
	s := openTestStore(t)

	scheme := store.Scheme{
		ID:          store.SchemeID("PM-KISAN", "", ""),
		Name:        "PM-KISAN",
		Description: "Original description",
		Status:      "active",
	}
	if err := s.StoreScheme(scheme); err != nil {
		t.Fatalf("Failed to store scheme: %v", err)
	}

	scheme.Description = "Updated description"
	if err := s.StoreScheme(scheme); err != nil {
		t.Fatalf("Failed to re-store scheme: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.TotalSchemes != 1 {
		t.Fatalf("Expected 1 scheme after upsert, got %d", stats.TotalSchemes)
	}

	results, err := s.SearchSchemes("PM-KISAN", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Description != "Updated description" {
		t.Errorf("Expected last write to win, got %q", results[0].Description)
	}
}

func TestSchemeIDStable(t *testing.T) {
	a := store.SchemeID("PM-KISAN", "Ministry of Agriculture", "")
	b := store.SchemeID("PM-KISAN", "Ministry of Agriculture", "")
	c := store.SchemeID("PM-KISAN", "Ministry of Agriculture", "karnataka")

	if a != b {
		t.Errorf("Expected stable id, got %s vs %s", a, b)
	}
	if a == c {
		t.Error("Expected state to affect the id")
	}
}

func TestSearchSchemesFilterCorrectness(t *testing.T) {
	s := openTestStore(t)
	seedSchemes(t, s)

	results, err := s.SearchSchemes("subsidy", map[string]string{
		"state":  "karnataka",
		"status": "active",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected at least one result")
	}

	for _, r := range results {
		if r.State != "karnataka" {
			t.Errorf("Filter violated: state %q", r.State)
		}
		if r.Status != "active" {
			t.Errorf("Filter violated: status %q", r.Status)
		}
	}
}

func TestSearchSchemesRelevanceOrdering(t *testing.T) {
	s := openTestStore(t)
	seedSchemes(t, s)

	results, err := s.SearchSchemes("irrigation", map[string]string{"status": "active"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected results for irrigation query")
	}

	// Whole-query match in both name and description, plus the word matches:
	// 2.0 + 1.5 + 0.5 + 0.3.
	if results[0].Name != "Drip Irrigation Subsidy" {
		t.Errorf("Expected Drip Irrigation Subsidy first, got %q", results[0].Name)
	}
	want := 4.3
	if diff := results[0].RelevanceScore - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("RelevanceScore = %f, want %f", results[0].RelevanceScore, want)
	}

	for i := 1; i < len(results); i++ {
		if results[i].RelevanceScore > results[i-1].RelevanceScore {
			t.Error("Results not sorted by relevance")
		}
	}
}

func TestSearchSchemesEmptyQueryListsAll(t *testing.T) {
	s := openTestStore(t)
	seedSchemes(t, s)

	results, err := s.SearchSchemes("", map[string]string{"status": "active"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 active schemes, got %d", len(results))
	}
}

func TestSearchSchemesNoMatchIsNotAnError(t *testing.T) {
	s := openTestStore(t)
	seedSchemes(t, s)

	results, err := s.SearchSchemes("helicopter leasing", nil)
	if err != nil {
		t.Fatalf("Expected no error for empty match, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestSchemeRoundTripLists(t *testing.T) {
	s := openTestStore(t)
	seedSchemes(t, s)

	results, err := s.SearchSchemes("Drip Irrigation", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected a result")
	}

	r := results[0]
	if len(r.Eligibility) != 2 {
		t.Errorf("Expected 2 eligibility items, got %v", r.Eligibility)
	}
	if r.SubsidyAmount != "55% of system cost" {
		t.Errorf("SubsidyAmount = %q", r.SubsidyAmount)
	}
}
