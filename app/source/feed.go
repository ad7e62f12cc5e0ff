package source

import (
	"bytes"
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
)

// FeedSource pulls items from one RSS/Atom feed.
type FeedSource struct {
	config       Config
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	extractor    *ContentExtractor
	userAgent    string
}

func NewFeedSource(config Config, userAgent string) *FeedSource {
	feedSource := &FeedSource{
		config:       config,
		httpClient:   NewHTTPClient(time.Duration(config.Timeout) * time.Second),
		gofeedParser: gofeed.NewParser(),
		userAgent:    userAgent,
	}

	if config.ExtractContent {
		feedSource.extractor = NewContentExtractor()
	}

	return feedSource
}

func (f *FeedSource) Name() string {
	return f.config.Name
}

func (f *FeedSource) Type() event.SourceType {
	return event.SourceTypeRSS
}

func (f *FeedSource) Fetch(ctx context.Context) ([]event.RawRecord, error) {
	var data []byte
	err := retry(ctx, fetchAttempts, fetchBackoffStart, fetchBackoffCap, func() error {
		var fetchErr error
		data, fetchErr = f.fetch(ctx, f.config.URL)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed, err := f.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	records := make([]event.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		records = append(records, f.normalizeItem(ctx, item))
	}

	return records, nil
}

func (f *FeedSource) normalizeItem(ctx context.Context, item *gofeed.Item) event.RawRecord {
	record := event.RawRecord{
		SourceType: event.SourceTypeRSS,
		SourceName: f.config.Name,
		NativeID:   cmp.Or(item.GUID, f.generateContentHash(item)),
		Title:      item.Title,
		Link:       item.Link,
	}

	if item.PublishedParsed != nil {
		published := item.PublishedParsed.UTC()
		record.PublishedAt = &published
	}

	body := stripTags(item.Description)
	if f.extractor != nil {
		if extracted, err := f.extractArticle(ctx, item.Link); err == nil {
			body = extracted
		} else {
			slog.Debug("Content extraction failed, using feed description", "source", f.config.Name, "link", item.Link, "error", err)
		}
	}
	record.Text = joinTitleBody(item.Title, body)

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			record.MediaURLs = append(record.MediaURLs, enclosure.URL)
		}
	}

	return record
}

func (f *FeedSource) fetch(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(f.config.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

func (f *FeedSource) extractArticle(ctx context.Context, link string) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", fmt.Errorf("item has no link")
	}

	data, err := f.fetch(ctx, link)
	if err != nil {
		return "", err
	}

	return f.extractor.Run(data)
}

// Items without a GUID fall back to a content hash so the identity stays
// stable across fetches.
func (f *FeedSource) generateContentHash(item *gofeed.Item) string {
	content := fmt.Sprintf("%s|%s",
		item.Title,
		item.Link)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func joinTitleBody(title, body string) string {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)

	if body == "" {
		return title
	}
	if title == "" {
		return body
	}
	return title + ". " + body
}

// stripTags flattens an HTML fragment to its text content. Feed
// descriptions regularly wrap the summary in markup.
func stripTags(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var builder strings.Builder
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(builder.String()), " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				if skipDepth > 0 {
					skipDepth--
				}
			}
		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
				builder.WriteByte(' ')
			}
		}
	}
}
