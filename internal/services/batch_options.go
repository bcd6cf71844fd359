package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"travel-time-service/internal/departure"
	"travel-time-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Output columns written by the batch processor.
const (
	ColumnDuration = "driving_time_min"
	ColumnDistance = "distance_km"
	ColumnStatus   = "api_status"
)

// ColumnMap names the coordinate columns of the input table.
// Empty names fall back to DefaultColumnMap.
type ColumnMap struct {
	OriginLat string `json:"origin_lat"`
	OriginLon string `json:"origin_lon"`
	DestLat   string `json:"dest_lat"`
	DestLon   string `json:"dest_lon"`
}

func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		OriginLat: "origin_lat",
		OriginLon: "origin_lon",
		DestLat:   "dest_lat",
		DestLon:   "dest_lon",
	}
}

func (c ColumnMap) withDefaults() ColumnMap {
	d := DefaultColumnMap()
	if c.OriginLat == "" {
		c.OriginLat = d.OriginLat
	}
	if c.OriginLon == "" {
		c.OriginLon = d.OriginLon
	}
	if c.DestLat == "" {
		c.DestLat = d.DestLat
	}
	if c.DestLon == "" {
		c.DestLon = d.DestLon
	}
	return c
}

func (c ColumnMap) names() []string {
	return []string{c.OriginLat, c.OriginLon, c.DestLat, c.DestLon}
}

// BatchOptions are the batch level settings shared by every row.
type BatchOptions struct {
	Mode         domain.TravelMode   `json:"mode" validate:"oneof=driving walking bicycling transit"`
	TrafficModel domain.TrafficModel `json:"traffic_model" validate:"oneof=best_guess pessimistic optimistic"`
	// Departure is resolved once per batch. nil is the same as departure.Unset.
	Departure departure.Spec `json:"-"`
	// Delay is the fixed pause between consecutive rows.
	Delay time.Duration `json:"delay" validate:"gte=0"`
	// APIKey overrides the process-wide routing credential.
	APIKey string `json:"-"`
}

func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		Mode:         domain.ModeDriving,
		TrafficModel: domain.TrafficBestGuess,
		Departure:    departure.Unset{},
		Delay:        100 * time.Millisecond,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateOptions maps validator failures onto a ValidationError.
func validateOptions(v *validator.Validate, opts BatchOptions) error {
	err := v.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate batch options: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("invalid %s %q: must be one of %s",
				fe.Field(), fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid %s: failed %s", fe.Field(), fe.Tag()))
		}
	}

	return &domain.ValidationError{Msg: strings.Join(msgs, "; ")}
}
