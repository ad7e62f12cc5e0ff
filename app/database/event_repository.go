package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
)

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) InsertEvent(ev event.Event) (bool, error) {
	mediaURLs, err := marshalStrings(ev.MediaURLs)
	if err != nil {
		return false, fmt.Errorf("failed to encode media URLs: %w", err)
	}
	categories, err := marshalStrings(ev.Analysis.Categories)
	if err != nil {
		return false, fmt.Errorf("failed to encode categories: %w", err)
	}
	locations, err := marshalStrings(ev.Analysis.MentionedLocations)
	if err != nil {
		return false, fmt.Errorf("failed to encode mentioned locations: %w", err)
	}

	var published sql.NullString
	if ev.TimestampPublished != nil {
		published = sql.NullString{String: ev.TimestampPublished.UTC().Format(time.RFC3339), Valid: true}
	}

	result, err := r.db.Exec(`
		INSERT INTO events (
			event_id, source_type, source_name, content_raw, content_summary,
			link_original, timestamp_published, timestamp_scraped,
			media_urls, categories, mentioned_locations
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING
	`, ev.EventID, string(ev.SourceType), ev.SourceName, ev.ContentRaw, ev.ContentSummary,
		ev.LinkOriginal, published, ev.TimestampScraped.UTC().Format(time.RFC3339),
		mediaURLs, categories, locations)

	if err != nil {
		return false, fmt.Errorf("failed to store event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *eventRepository) GetEvent(eventID string) (*event.Event, error) {
	row := r.db.QueryRow(`
		SELECT event_id, source_type, source_name, content_raw, content_summary,
		       link_original, timestamp_published, timestamp_scraped,
		       media_urls, categories, mentioned_locations
		FROM events
		WHERE event_id = ?
	`, eventID)

	ev, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &ev, nil
}

func (r *eventRepository) GetRecentEvents(limit int, sourceName string) ([]event.Event, error) {
	query := `
		SELECT event_id, source_type, source_name, content_raw, content_summary,
		       link_original, timestamp_published, timestamp_scraped,
		       media_urls, categories, mentioned_locations
		FROM events`
	args := []interface{}{}

	if sourceName != "" {
		query += `
		WHERE source_name = ?`
		args = append(args, sourceName)
	}

	query += `
		ORDER BY timestamp_scraped DESC, event_id
		LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		ev, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

func (r *eventRepository) GetEventCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

func (r *eventRepository) CountBySource() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT source_name, COUNT(*)
		FROM events
		GROUP BY source_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var sourceName string
		var count int
		if err := rows.Scan(&sourceName, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[sourceName] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}

func scanEvent(scan func(dest ...any) error) (event.Event, error) {
	var ev event.Event
	var sourceType string
	var published sql.NullString
	var scraped string
	var mediaURLs, categories, locations string

	err := scan(&ev.EventID, &sourceType, &ev.SourceName, &ev.ContentRaw, &ev.ContentSummary,
		&ev.LinkOriginal, &published, &scraped, &mediaURLs, &categories, &locations)
	if err != nil {
		return event.Event{}, err
	}

	ev.SourceType = event.SourceType(sourceType)

	if published.Valid {
		parsed, err := time.Parse(time.RFC3339, published.String)
		if err != nil {
			return event.Event{}, fmt.Errorf("failed to parse published timestamp: %w", err)
		}
		utc := parsed.UTC()
		ev.TimestampPublished = &utc
	}

	parsedScraped, err := time.Parse(time.RFC3339, scraped)
	if err != nil {
		return event.Event{}, fmt.Errorf("failed to parse scraped timestamp: %w", err)
	}
	ev.TimestampScraped = parsedScraped.UTC()

	if ev.MediaURLs, err = unmarshalStrings(mediaURLs); err != nil {
		return event.Event{}, fmt.Errorf("failed to decode media URLs: %w", err)
	}
	if ev.Analysis.Categories, err = unmarshalStrings(categories); err != nil {
		return event.Event{}, fmt.Errorf("failed to decode categories: %w", err)
	}
	if ev.Analysis.MentionedLocations, err = unmarshalStrings(locations); err != nil {
		return event.Event{}, fmt.Errorf("failed to decode mentioned locations: %w", err)
	}

	return ev, nil
}

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}

	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	values := make([]string, 0)
	if data == "" {
		return values, nil
	}

	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	if values == nil {
		values = make([]string, 0)
	}

	return values, nil
}
