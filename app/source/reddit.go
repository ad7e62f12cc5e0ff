package source

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
)

const (
	redditAuthURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL  = "https://oauth.reddit.com"
)

var ErrNoRedditCredentials = errors.New("reddit credentials are not configured")

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Selftext      string  `json:"selftext"`
	Permalink     string  `json:"permalink"`
	URL           string  `json:"url"`
	CreatedUTC    float64 `json:"created_utc"`
	LinkFlairText string  `json:"link_flair_text"`
	IsSelf        bool    `json:"is_self"`
}

// RedditSource pulls the newest submissions of one subreddit through the
// OAuth2 client-credentials flow. Reddit rate limits per client id, so a
// single request is kept in flight at a time.
type RedditSource struct {
	config       Config
	userAgent    string
	clientID     string
	clientSecret string
	authURL      string
	apiURL       string

	httpClient *http.Client
	mu         sync.Mutex
}

func NewRedditSource(config Config, opts Options) (*RedditSource, error) {
	if opts.RedditClientID == "" || opts.RedditClientSecret == "" {
		return nil, ErrNoRedditCredentials
	}

	return &RedditSource{
		config:       config,
		userAgent:    cmp.Or(opts.RedditUserAgent, opts.UserAgent),
		clientID:     opts.RedditClientID,
		clientSecret: opts.RedditClientSecret,
		authURL:      redditAuthURL,
		apiURL:       redditAPIURL,
	}, nil
}

func (r *RedditSource) Name() string {
	return r.config.Name
}

func (r *RedditSource) Type() event.SourceType {
	return event.SourceTypeReddit
}

func (r *RedditSource) Fetch(ctx context.Context) ([]event.RawRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var data []byte
	err := retry(ctx, fetchAttempts, fetchBackoffStart, fetchBackoffCap, func() error {
		var fetchErr error
		data, fetchErr = r.fetchListing(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subreddit listing: %w", err)
	}

	var listing redditListing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	records := make([]event.RawRecord, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		records = append(records, r.normalizePost(child.Data))
	}

	return records, nil
}

func (r *RedditSource) fetchListing(ctx context.Context) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(r.config.Timeout)*time.Second)
	defer cancel()

	query := url.Values{}
	query.Set("limit", strconv.Itoa(r.config.Limit))
	query.Set("raw_json", "1")
	listingURL := fmt.Sprintf("%s/r/%s/new?%s", r.apiURL, r.config.Subreddit, query.Encode())

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
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

// client builds the token-refreshing HTTP client on first use.
func (r *RedditSource) client() *http.Client {
	if r.httpClient == nil {
		oauthConfig := &clientcredentials.Config{
			ClientID:     r.clientID,
			ClientSecret: r.clientSecret,
			TokenURL:     r.authURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		r.httpClient = oauthConfig.Client(context.Background())
		r.httpClient.Timeout = time.Duration(r.config.Timeout) * time.Second
	}
	return r.httpClient
}

func (r *RedditSource) normalizePost(post redditPost) event.RawRecord {
	record := event.RawRecord{
		SourceType: event.SourceTypeReddit,
		SourceName: r.config.Name,
		NativeID:   post.ID,
		Title:      post.Title,
		Text:       fmt.Sprintf("%s :: %s", post.Title, post.Selftext),
		Link:       "https://www.reddit.com" + post.Permalink,
		Flair:      post.LinkFlairText,
	}

	if post.CreatedUTC > 0 {
		created := time.Unix(int64(post.CreatedUTC), 0).UTC()
		record.PublishedAt = &created
	}

	// Link posts carry their target as media, except links back to reddit
	if !post.IsSelf && post.URL != "" && !strings.Contains(post.URL, "reddit.com") {
		record.MediaURLs = append(record.MediaURLs, post.URL)
	}

	return record
}
