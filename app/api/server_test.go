package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/metrics"
)

func TestRootEndpoint(t *testing.T) {
	setupTestConfig()
	repo := &mockRepository{}
	server := NewServer(NewHandler(repo))

	w := performRequest(server, "GET", "/")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", w.Code)
	}

	body := w.Body.String()

	if !strings.Contains(body, "Bengaluru Pulse") {
		t.Error("Expected service name in root response")
	}

	if !strings.Contains(body, "/feed.xml") {
		t.Error("Expected endpoint listing in root response")
	}
}

func TestFaviconReturnsNoContent(t *testing.T) {
	setupTestConfig()
	repo := &mockRepository{}
	server := NewServer(NewHandler(repo))

	w := performRequest(server, "GET", "/favicon.ico")

	if w.Code != 204 {
		t.Errorf("Expected status 204, got: %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	setupTestConfig()
	repo := &mockRepository{}
	server := NewServer(NewHandler(repo))

	w := performRequest(server, "OPTIONS", "/events")

	if w.Code != 204 {
		t.Errorf("Expected status 204 for preflight, got: %d", w.Code)
	}

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard CORS origin, got: %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	setupTestConfig()
	repo := &mockRepository{}
	server := NewServer(NewHandler(repo))

	metrics.RecordsProcessed.WithLabelValues("api-test", "inserted").Inc()

	w := performRequest(server, "GET", "/metrics")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", w.Code)
	}

	body := w.Body.String()

	if !strings.Contains(body, "pulse_records_processed_total") {
		t.Error("Expected records processed counter in metrics output")
	}

	if !strings.Contains(body, "pulse_run_duration_seconds") {
		t.Error("Expected run duration histogram in metrics output")
	}
}
