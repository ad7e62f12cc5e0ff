package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
)

// Source fetches raw records from one configured upstream.
type Source interface {
	Name() string
	Type() event.SourceType
	Fetch(ctx context.Context) ([]event.RawRecord, error)
}

// Options carries the cross-source settings shared by all adapters.
type Options struct {
	UserAgent          string
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
}

func New(config Config, opts Options) (Source, error) {
	switch config.Type {
	case TypeRSS:
		return NewFeedSource(config, opts.UserAgent), nil
	case TypeReddit:
		return NewRedditSource(config, opts)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}

// NewAll builds a source per config. Reddit sources without configured
// credentials are skipped with a warning instead of failing startup.
func NewAll(configs []Config, opts Options) ([]Source, error) {
	sources := make([]Source, 0, len(configs))
	for _, config := range configs {
		src, err := New(config, opts)
		if err != nil {
			if errors.Is(err, ErrNoRedditCredentials) {
				slog.Warn("Reddit credentials not configured, skipping source", "source", config.Name)
				continue
			}
			return nil, fmt.Errorf("failed to build source '%s': %w", config.Name, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
