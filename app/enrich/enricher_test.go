package enrich

import (
	"reflect"
	"testing"
)

func newTestEnricher(t *testing.T) *Enricher {
	t.Helper()

	taxonomy, err := LoadTaxonomy("")
	if err != nil {
		t.Fatalf("Failed to load taxonomy: %v", err)
	}
	gazetteer, err := LoadGazetteer("")
	if err != nil {
		t.Fatalf("Failed to load gazetteer: %v", err)
	}

	return NewEnricher(taxonomy, gazetteer)
}

func TestRunMatchesCategoryAndLocation(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("Massive traffic jam at Silk Board after heavy rain")

	if !contains(analysis.Categories, "traffic") {
		t.Errorf("Expected 'traffic' category, got: %v", analysis.Categories)
	}
	if !contains(analysis.MentionedLocations, "Silk Board") {
		t.Errorf("Expected 'Silk Board' location, got: %v", analysis.MentionedLocations)
	}
}

func TestRunIsCaseInsensitive(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("MASSIVE TRAFFIC JAM NEAR KORAMANGALA")

	if !contains(analysis.Categories, "traffic") {
		t.Errorf("Expected 'traffic' category, got: %v", analysis.Categories)
	}
	if !contains(analysis.MentionedLocations, "Koramangala") {
		t.Errorf("Expected canonical 'Koramangala', got: %v", analysis.MentionedLocations)
	}
}

func TestRunLongestAliasWins(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("New flyover proposed for HSR Layout junction")

	expected := []string{"HSR Layout"}
	if !reflect.DeepEqual(analysis.MentionedLocations, expected) {
		t.Errorf("Expected exactly %v, got: %v", expected, analysis.MentionedLocations)
	}
}

func TestRunShortAliasResolvesToCanonical(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("Waterlogging reported in HSR this morning")

	if !contains(analysis.MentionedLocations, "HSR Layout") {
		t.Errorf("Expected alias to resolve to 'HSR Layout', got: %v", analysis.MentionedLocations)
	}
	if contains(analysis.MentionedLocations, "HSR") {
		t.Errorf("Expected canonical name only, got: %v", analysis.MentionedLocations)
	}
}

func TestRunNoMatchesYieldsEmptySets(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("Quiet weekend ahead for the city")

	if analysis.Categories == nil || len(analysis.Categories) != 0 {
		t.Errorf("Expected empty non-nil categories, got: %v", analysis.Categories)
	}
	if analysis.MentionedLocations == nil || len(analysis.MentionedLocations) != 0 {
		t.Errorf("Expected empty non-nil locations, got: %v", analysis.MentionedLocations)
	}
}

func TestRunWholeWordMatchingOnly(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("Signals processing workshop on pilgrimage routes")

	if contains(analysis.Categories, "traffic") {
		t.Errorf("Expected no 'traffic' match inside larger words, got: %v", analysis.Categories)
	}

	analysis = enricher.Run("Faulty signal at the junction")
	if !contains(analysis.Categories, "traffic") {
		t.Errorf("Expected 'traffic' for standalone trigger, got: %v", analysis.Categories)
	}
}

func TestRunMatchesMultiWordTriggers(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("Scheduled power cut in Jayanagar on Sunday")

	if !contains(analysis.Categories, "power_cut") {
		t.Errorf("Expected 'power_cut' category, got: %v", analysis.Categories)
	}
	if !contains(analysis.MentionedLocations, "Jayanagar") {
		t.Errorf("Expected 'Jayanagar' location, got: %v", analysis.MentionedLocations)
	}
}

func TestRunMatchesNextToPunctuation(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("Accident near Silk Board! Expect delays, traffic diverted.")

	if !contains(analysis.Categories, "traffic") {
		t.Errorf("Expected 'traffic' category, got: %v", analysis.Categories)
	}
	if !contains(analysis.MentionedLocations, "Silk Board") {
		t.Errorf("Expected 'Silk Board' location, got: %v", analysis.MentionedLocations)
	}
}

func TestRunCategoriesFollowTaxonomyOrder(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("Police arrest suspect after theft; traffic jam near the station")

	expected := []string{"traffic", "crime"}
	if !reflect.DeepEqual(analysis.Categories, expected) {
		t.Errorf("Expected categories %v, got: %v", expected, analysis.Categories)
	}
}

func TestRunLocationsSortedAndDeduplicated(t *testing.T) {
	enricher := newTestEnricher(t)

	analysis := enricher.Run("From Whitefield to Bellandur and back to Whitefield")

	expected := []string{"Bellandur", "Whitefield"}
	if !reflect.DeepEqual(analysis.MentionedLocations, expected) {
		t.Errorf("Expected sorted unique locations %v, got: %v", expected, analysis.MentionedLocations)
	}
}

func TestCanonicalCategory(t *testing.T) {
	enricher := newTestEnricher(t)

	canonical, ok := enricher.CanonicalCategory("Traffic")
	if !ok || canonical != "traffic" {
		t.Errorf("Expected ('traffic', true), got: (%s, %v)", canonical, ok)
	}

	if _, ok := enricher.CanonicalCategory("Rant"); ok {
		t.Error("Expected no match for a name outside the taxonomy")
	}

	if _, ok := enricher.CanonicalCategory(""); ok {
		t.Error("Expected no match for an empty name")
	}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
