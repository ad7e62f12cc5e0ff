package event

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

// DefaultSummaryLimit caps content_summary length in runes.
const DefaultSummaryLimit = 280

var (
	ErrMissingLink = errors.New("record has no original link")
	ErrMissingID   = errors.New("record has no native identifier")
)

type Normalizer struct {
	summaryLimit int
}

func NewNormalizer() *Normalizer {
	return &Normalizer{
		summaryLimit: DefaultSummaryLimit,
	}
}

// Run converts a raw record into the canonical Event shape. The scrapedAt
// clock value is read once per run by the caller so every event of a run
// carries the same scrape timestamp. Records without a link or native id are
// rejected, not repaired; the caller counts them and moves on.
func (n *Normalizer) Run(rec RawRecord, scrapedAt time.Time) (Event, error) {
	if strings.TrimSpace(rec.Link) == "" {
		return Event{}, ErrMissingLink
	}
	if rec.NativeID == "" {
		return Event{}, ErrMissingID
	}

	media := make([]string, 0, len(rec.MediaURLs))
	media = append(media, rec.MediaURLs...)

	ev := Event{
		EventID:            rec.SourceType.Prefix() + "_" + rec.NativeID,
		SourceType:         rec.SourceType,
		SourceName:         rec.SourceName,
		ContentRaw:         rec.Text,
		ContentSummary:     n.summarize(rec.Text),
		LinkOriginal:       rec.Link,
		TimestampPublished: rec.PublishedAt,
		TimestampScraped:   scrapedAt.UTC(),
		MediaURLs:          media,
		Analysis: Analysis{
			Categories:         []string{},
			MentionedLocations: []string{},
		},
	}

	return ev, nil
}

// summarize returns a display excerpt: a prefix of the raw content, cut at a
// word boundary, never longer than the limit.
func (n *Normalizer) summarize(text string) string {
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= n.summaryLimit {
		return text
	}

	cut := runes[:n.summaryLimit]

	// Walk back to the last space so no word is split. A single oversized
	// token is hard-cut at the limit.
	boundary := -1
	for i := len(cut) - 1; i > 0; i-- {
		if unicode.IsSpace(cut[i]) {
			boundary = i
			break
		}
	}
	if boundary > 0 {
		cut = cut[:boundary]
	}

	return strings.TrimRightFunc(string(cut), unicode.IsSpace)
}
