package dto

import (
	"time"

	"travel-time-service/internal/domain"
)

type ColumnMapRequest struct {
	OriginLat string `json:"origin_lat"`
	OriginLon string `json:"origin_lon"`
	DestLat   string `json:"dest_lat"`
	DestLon   string `json:"dest_lon"`
}

type BatchOptionsRequest struct {
	Mode         string `json:"mode"`
	TrafficModel string `json:"traffic_model"`
	// "now", "YYYY-MM-DD HH:MM:SS" (UTC), an RFC 3339 time or epoch seconds.
	DepartureTime any      `json:"departure_time"`
	DelaySeconds  *float64 `json:"delay_seconds"`
	APIKey        string   `json:"api_key"`
}

type BatchRequest struct {
	Columns   []string            `json:"columns"`
	Rows      [][]any             `json:"rows"`
	ColumnMap *ColumnMapRequest   `json:"column_map"`
	Options   BatchOptionsRequest `json:"options"`
}

type BatchResponse struct {
	BatchID       string              `json:"batch_id"`
	Columns       []string            `json:"columns"`
	Rows          [][]any             `json:"rows"`
	DepartureTime *int64              `json:"departure_time"`
	Summary       domain.BatchSummary `json:"summary"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
}

type RouteResultResponse struct {
	DrivingTimeMin *float64 `json:"driving_time_min"`
	DistanceKm     *float64 `json:"distance_km"`
	APIStatus      string   `json:"api_status"`
}

type StoredBatchResponse struct {
	BatchID       string                `json:"batch_id"`
	Mode          string                `json:"mode"`
	TrafficModel  string                `json:"traffic_model,omitempty"`
	DepartureTime *int64                `json:"departure_time"`
	Summary       domain.BatchSummary   `json:"summary"`
	Results       []RouteResultResponse `json:"results"`
	StartedAt     time.Time             `json:"started_at"`
	FinishedAt    time.Time             `json:"finished_at"`
}
