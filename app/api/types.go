package api

import (
	"sync/atomic"
	"time"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/database"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/pipeline"
)

type GeneratorInterface interface {
	Run(events []event.Event) (string, error)
}

var _ GeneratorInterface = (*event.Generator)(nil)

type Handler struct {
	eventRepo  database.EventRepository
	generator  GeneratorInterface
	lastReport atomic.Pointer[pipeline.Report]
	startedAt  time.Time
}
