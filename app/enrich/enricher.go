package enrich

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
)

type foldedCategory struct {
	name     string
	triggers []string
}

type foldedAlias struct {
	alias     string
	canonical string
}

type span struct {
	begin     int
	end       int
	canonical string
}

// Enricher tags text with taxonomy categories and gazetteer locations.
// Triggers and aliases only match whole words: a match may not sit inside
// a larger word, so "signals" never triggers "signal".
type Enricher struct {
	categories    []foldedCategory
	aliases       []foldedAlias
	categoryNames map[string]string
}

func NewEnricher(taxonomy *Taxonomy, gazetteer *Gazetteer) *Enricher {
	enricher := &Enricher{
		categoryNames: make(map[string]string, len(taxonomy.Categories)),
	}

	for _, category := range taxonomy.Categories {
		folded := foldedCategory{name: category.Name}
		for _, trigger := range category.Triggers {
			folded.triggers = append(folded.triggers, fold(trigger))
		}
		enricher.categories = append(enricher.categories, folded)
		enricher.categoryNames[fold(category.Name)] = category.Name
	}

	for _, place := range gazetteer.Locations {
		// The canonical name is an alias of itself
		enricher.aliases = append(enricher.aliases, foldedAlias{alias: fold(place.Name), canonical: place.Name})
		for _, alias := range place.Aliases {
			enricher.aliases = append(enricher.aliases, foldedAlias{alias: fold(alias), canonical: place.Name})
		}
	}

	return enricher
}

// Run scans text and returns the matched categories (in taxonomy order)
// and the canonical names of matched locations (deduplicated, sorted).
// Text with no matches yields empty, non-nil sets.
func (e *Enricher) Run(text string) event.Analysis {
	folded := fold(text)

	analysis := event.Analysis{
		Categories:         make([]string, 0),
		MentionedLocations: make([]string, 0),
	}

	for _, category := range e.categories {
		for _, trigger := range category.triggers {
			if hasWordMatch(folded, trigger) {
				analysis.Categories = append(analysis.Categories, category.name)
				break
			}
		}
	}

	analysis.MentionedLocations = e.matchLocations(folded)

	return analysis
}

// CanonicalCategory resolves name against the taxonomy, ignoring case.
func (e *Enricher) CanonicalCategory(name string) (string, bool) {
	canonical, ok := e.categoryNames[fold(strings.TrimSpace(name))]
	return canonical, ok
}

// matchLocations collects alias matches as spans over the folded text and
// keeps only the longest span among overlapping ones, so "hsr layout"
// suppresses the shorter "hsr" inside it.
func (e *Enricher) matchLocations(folded string) []string {
	var spans []span
	for _, entry := range e.aliases {
		for _, match := range findWordSpans(folded, entry.alias) {
			spans = append(spans, span{begin: match[0], end: match[1], canonical: entry.canonical})
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		left, right := spans[i], spans[j]
		if left.end-left.begin != right.end-right.begin {
			return left.end-left.begin > right.end-right.begin
		}
		return left.begin < right.begin
	})

	var kept []span
	for _, candidate := range spans {
		overlaps := false
		for _, accepted := range kept {
			if candidate.begin < accepted.end && accepted.begin < candidate.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, candidate)
		}
	}

	seen := make(map[string]bool)
	locations := make([]string, 0, len(kept))
	for _, accepted := range kept {
		if !seen[accepted.canonical] {
			seen[accepted.canonical] = true
			locations = append(locations, accepted.canonical)
		}
	}
	sort.Strings(locations)

	return locations
}

func fold(text string) string {
	return cases.Fold().String(text)
}

func hasWordMatch(text, phrase string) bool {
	for offset := 0; ; {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return false
		}
		begin := offset + idx
		if isWordBounded(text, begin, begin+len(phrase)) {
			return true
		}
		offset = begin + 1
	}
}

func findWordSpans(text, phrase string) [][2]int {
	var spans [][2]int
	for offset := 0; ; {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			break
		}
		begin := offset + idx
		end := begin + len(phrase)
		if isWordBounded(text, begin, end) {
			spans = append(spans, [2]int{begin, end})
		}
		offset = begin + 1
	}
	return spans
}

func isWordBounded(text string, begin, end int) bool {
	if begin > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:begin])
		if unicode.IsLetter(before) || unicode.IsDigit(before) {
			return false
		}
	}
	if end < len(text) {
		after, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(after) || unicode.IsDigit(after) {
			return false
		}
	}
	return true
}
