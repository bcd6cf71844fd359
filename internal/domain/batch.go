package domain

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate counts for one processed batch. Observability only.
type BatchSummary struct {
	Rows   int `json:"rows"`
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// Summarize counts OK and non-OK results.
func Summarize(results []RouteResult) BatchSummary {
	s := BatchSummary{Rows: len(results)}
	for _, r := range results {
		if r.OK() {
			s.OK++
		} else {
			s.Failed++
		}
	}
	return s
}

// Represents one completed run of the batch processor.
// Results are in input row order and have one entry per row.
type Batch struct {
	ID            uuid.UUID
	Mode          TravelMode
	TrafficModel  TrafficModel
	DepartureTime *int64
	Results       []RouteResult
	Summary       BatchSummary
	StartedAt     time.Time
	FinishedAt    time.Time
}
