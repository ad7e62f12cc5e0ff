package event

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNormalizeRSSRecord(t *testing.T) {
	normalizer := NewNormalizer()
	published := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	scraped := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	rec := RawRecord{
		SourceType:  SourceTypeRSS,
		SourceName:  "TheHindu",
		NativeID:    "article-123",
		Title:       "Waterlogging on ORR",
		Text:        "Waterlogging on ORR. Heavy rain flooded the service road near Bellandur.",
		Link:        "https://example.com/article-123",
		PublishedAt: &published,
		MediaURLs:   []string{"https://example.com/photo.jpg"},
	}

	ev, err := normalizer.Run(rec, scraped)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if ev.EventID != "rss_article-123" {
		t.Errorf("Expected event id 'rss_article-123', got: %s", ev.EventID)
	}
	if ev.SourceType != SourceTypeRSS {
		t.Errorf("Expected source type RSS, got: %s", ev.SourceType)
	}
	if ev.SourceName != "TheHindu" {
		t.Errorf("Expected source name 'TheHindu', got: %s", ev.SourceName)
	}
	if ev.ContentRaw != rec.Text {
		t.Errorf("Expected content_raw to carry the record text, got: %s", ev.ContentRaw)
	}
	if ev.LinkOriginal != rec.Link {
		t.Errorf("Expected link '%s', got: %s", rec.Link, ev.LinkOriginal)
	}
	if ev.TimestampPublished == nil || !ev.TimestampPublished.Equal(published) {
		t.Errorf("Expected published timestamp %v, got: %v", published, ev.TimestampPublished)
	}
	if !ev.TimestampScraped.Equal(scraped) {
		t.Errorf("Expected scraped timestamp %v, got: %v", scraped, ev.TimestampScraped)
	}
	if len(ev.MediaURLs) != 1 || ev.MediaURLs[0] != "https://example.com/photo.jpg" {
		t.Errorf("Expected media URLs to be carried over, got: %v", ev.MediaURLs)
	}
	if ev.Analysis.Categories == nil || ev.Analysis.MentionedLocations == nil {
		t.Error("Expected analysis sets to be initialized")
	}
}

func TestNormalizeRedditRecord(t *testing.T) {
	normalizer := NewNormalizer()

	rec := RawRecord{
		SourceType: SourceTypeReddit,
		SourceName: "r/bangalore",
		NativeID:   "1abcde",
		Text:       "Power cut in Indiranagar :: Anyone else without electricity since morning?",
		Link:       "https://www.reddit.com/r/bangalore/comments/1abcde/power_cut/",
	}

	ev, err := normalizer.Run(rec, time.Now().UTC())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if ev.EventID != "reddit_1abcde" {
		t.Errorf("Expected event id 'reddit_1abcde', got: %s", ev.EventID)
	}
	if ev.TimestampPublished != nil {
		t.Errorf("Expected nil published timestamp, got: %v", ev.TimestampPublished)
	}
}

func TestIdentityStableAcrossRuns(t *testing.T) {
	normalizer := NewNormalizer()

	rec := RawRecord{
		SourceType: SourceTypeRSS,
		SourceName: "DeccanHerald",
		NativeID:   "guid-42",
		Text:       "Traffic diversion on MG Road",
		Link:       "https://example.com/guid-42",
	}

	first, err := normalizer.Run(rec, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := normalizer.Run(rec, time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if first.EventID != second.EventID {
		t.Errorf("Expected identical event ids across runs, got: %s vs %s", first.EventID, second.EventID)
	}
}

func TestMissingLinkRejected(t *testing.T) {
	normalizer := NewNormalizer()

	rec := RawRecord{
		SourceType: SourceTypeRSS,
		SourceName: "TimesOfIndia",
		NativeID:   "guid-1",
		Text:       "Headline without a link",
	}

	_, err := normalizer.Run(rec, time.Now().UTC())
	if err != ErrMissingLink {
		t.Errorf("Expected ErrMissingLink, got: %v", err)
	}

	rec.Link = "   "
	_, err = normalizer.Run(rec, time.Now().UTC())
	if err != ErrMissingLink {
		t.Errorf("Expected ErrMissingLink for blank link, got: %v", err)
	}
}

func TestMissingNativeIDRejected(t *testing.T) {
	normalizer := NewNormalizer()

	rec := RawRecord{
		SourceType: SourceTypeReddit,
		SourceName: "r/bangalore",
		Text:       "post without id",
		Link:       "https://www.reddit.com/r/bangalore/comments/x/post/",
	}

	_, err := normalizer.Run(rec, time.Now().UTC())
	if err != ErrMissingID {
		t.Errorf("Expected ErrMissingID, got: %v", err)
	}
}

func TestSummaryTrimsAtWordBoundary(t *testing.T) {
	normalizer := NewNormalizer()

	word := "bengaluru"
	text := strings.TrimSpace(strings.Repeat(word+" ", 60))

	rec := RawRecord{
		SourceType: SourceTypeRSS,
		SourceName: "TheHindu",
		NativeID:   "guid-long",
		Text:       text,
		Link:       "https://example.com/long",
	}

	ev, err := normalizer.Run(rec, time.Now().UTC())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len([]rune(ev.ContentSummary)) > DefaultSummaryLimit {
		t.Errorf("Expected summary within %d runes, got %d", DefaultSummaryLimit, len([]rune(ev.ContentSummary)))
	}
	if !strings.HasPrefix(text, ev.ContentSummary) {
		t.Error("Expected summary to be a prefix of the raw content")
	}
	for _, part := range strings.Fields(ev.ContentSummary) {
		if part != word {
			t.Errorf("Expected no split words in summary, found: %q", part)
		}
	}
}

func TestSummaryShortContentUnchanged(t *testing.T) {
	normalizer := NewNormalizer()

	rec := RawRecord{
		SourceType: SourceTypeRSS,
		SourceName: "TheHindu",
		NativeID:   "guid-short",
		Text:       "Short headline.",
		Link:       "https://example.com/short",
	}

	ev, err := normalizer.Run(rec, time.Now().UTC())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if ev.ContentSummary != "Short headline." {
		t.Errorf("Expected summary to equal content, got: %q", ev.ContentSummary)
	}
}

func TestMediaURLsMarshalAsEmptyArray(t *testing.T) {
	normalizer := NewNormalizer()

	rec := RawRecord{
		SourceType: SourceTypeReddit,
		SourceName: "r/bangalore",
		NativeID:   "noimg",
		Text:       "text post",
		Link:       "https://www.reddit.com/r/bangalore/comments/noimg/",
	}

	ev, err := normalizer.Run(rec, time.Now().UTC())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if ev.MediaURLs == nil {
		t.Fatal("Expected non-nil media URL slice")
	}

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Expected no marshal error, got: %v", err)
	}
	if !strings.Contains(string(data), `"media_urls":[]`) {
		t.Errorf("Expected empty media_urls array in JSON, got: %s", data)
	}
	if !strings.Contains(string(data), `"timestamp_published":null`) {
		t.Errorf("Expected null timestamp_published in JSON, got: %s", data)
	}
}
