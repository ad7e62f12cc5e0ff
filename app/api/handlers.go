package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/cfg"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/database"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/pipeline"
)

const (
	defaultEventsLimit = 50
	maxEventsLimit     = 500
	feedItemLimit      = 100
)

func NewHandler(eventRepo database.EventRepository) *Handler {
	return &Handler{
		eventRepo: eventRepo,
		generator: event.NewGenerator(),
		startedAt: time.Now(),
	}
}

// SetLastReport records the report of the most recent completed run. Wired as
// the scheduler's onReport callback, read by GetStatus.
func (h *Handler) SetLastReport(report *pipeline.Report) {
	h.lastReport.Store(report)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if eventCount, err := h.eventRepo.GetEventCount(); err == nil {
		health["events"] = eventCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStatus(c *gin.Context) {
	status := map[string]interface{}{
		"version": cfg.Get().Version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	}

	if total, err := h.eventRepo.GetEventCount(); err == nil {
		status["total_events"] = total
	}

	if counts, err := h.eventRepo.CountBySource(); err == nil {
		status["events_by_source"] = counts
	}

	if report := h.lastReport.Load(); report != nil {
		status["last_run"] = report
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) GetEvents(c *gin.Context) {
	limit := defaultEventsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		if parsed > maxEventsLimit {
			parsed = maxEventsLimit
		}
		limit = parsed
	}

	events, err := h.eventRepo.GetRecentEvents(limit, c.Query("source"))
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if events == nil {
		events = []event.Event{}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  len(events),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	events, err := h.eventRepo.GetRecentEvents(feedItemLimit, "")
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_events", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(events)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(events)))

	c.String(http.StatusOK, rss)
}
