package database

import (
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
)

type EventRepository interface {
	// InsertEvent stores ev unless an event with the same id already
	// exists. Returns true when a row was written.
	InsertEvent(ev event.Event) (bool, error)

	GetEvent(eventID string) (*event.Event, error)
	GetRecentEvents(limit int, sourceName string) ([]event.Event, error)
	GetEventCount() (int, error)
	CountBySource() (map[string]int, error)
}
