package event

import (
	"time"
)

type SourceType string

const (
	SourceTypeRSS    SourceType = "RSS"
	SourceTypeReddit SourceType = "Reddit"
)

// Prefix returns the event_id namespace for the source type.
func (s SourceType) Prefix() string {
	if s == SourceTypeReddit {
		return "reddit"
	}
	return "rss"
}

// RawRecord is the uniform intermediate shape every source adapter emits.
// NativeID is the source's own identifier for the item (feed guid, submission
// id); adapters that cannot obtain one derive a stable content hash instead.
type RawRecord struct {
	SourceType  SourceType
	SourceName  string
	NativeID    string
	Title       string
	Text        string
	Link        string
	PublishedAt *time.Time
	MediaURLs   []string
	Flair       string
}

type Analysis struct {
	Categories         []string `json:"categories"`
	MentionedLocations []string `json:"mentioned_locations"`
}

// Event is the canonical, persisted record. Field names and JSON tags match
// the stored document shape one-for-one.
type Event struct {
	EventID            string     `json:"event_id"`
	SourceType         SourceType `json:"source_type"`
	SourceName         string     `json:"source_name"`
	ContentRaw         string     `json:"content_raw"`
	ContentSummary     string     `json:"content_summary"`
	LinkOriginal       string     `json:"link_original"`
	TimestampPublished *time.Time `json:"timestamp_published"`
	TimestampScraped   time.Time  `json:"timestamp_scraped"`
	MediaURLs          []string   `json:"media_urls"`
	Analysis           Analysis   `json:"analysis"`
}
