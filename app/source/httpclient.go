package source

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const (
	fetchAttempts     = 3
	fetchBackoffStart = 1 * time.Second
	fetchBackoffCap   = 8 * time.Second
)

func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// retry runs fn up to attempts times with exponential backoff between
// tries, stopping early on success or context cancellation.
func retry(ctx context.Context, attempts int, initial, max time.Duration, fn func() error) error {
	if attempts <= 1 {
		return fn()
	}
	delay := initial
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := fn(); err != nil {
			if i == attempts-1 {
				return err
			}
			if delay < max {
				delay *= 2
				if delay > max {
					delay = max
				}
			}
			continue
		}
		return nil
	}
	return errors.New("retry: exhausted")
}
