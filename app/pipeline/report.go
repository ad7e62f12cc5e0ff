package pipeline

import (
	"time"
)

type SourceStatus string

const (
	StatusCompleted SourceStatus = "completed"
	StatusSkipped   SourceStatus = "skipped"
)

type SourceReport struct {
	Source     string       `json:"source"`
	Status     SourceStatus `json:"status"`
	Fetched    int          `json:"fetched"`
	Normalized int          `json:"normalized"`
	Malformed  int          `json:"malformed"`
	Inserted   int          `json:"inserted"`
	Duplicates int          `json:"duplicates"`
	Error      string       `json:"error,omitempty"`
}

type Report struct {
	StartedAt       time.Time      `json:"started_at"`
	DurationSeconds float64        `json:"duration_seconds"`
	Sources         []SourceReport `json:"sources"`
	TotalFetched    int            `json:"total_fetched"`
	TotalInserted   int            `json:"total_inserted"`
	TotalDuplicates int            `json:"total_duplicates"`
	TotalMalformed  int            `json:"total_malformed"`
}

func (r *Report) addSource(sourceReport SourceReport) {
	r.Sources = append(r.Sources, sourceReport)
	r.TotalFetched += sourceReport.Fetched
	r.TotalInserted += sourceReport.Inserted
	r.TotalDuplicates += sourceReport.Duplicates
	r.TotalMalformed += sourceReport.Malformed
}
