package routing

import (
	"context"
	"math"

	"travel-time-service/internal/domain"
)

const earthRadius = 6371000.0 // meters

// Average speeds in km/h used for offline estimates.
var averageSpeedKmh = map[domain.TravelMode]float64{
	domain.ModeDriving:   50,
	domain.ModeTransit:   25,
	domain.ModeBicycling: 15,
	domain.ModeWalking:   5,
}

// HaversineProvider estimates routes from great-circle distance. It needs no
// credential and makes no network calls; departure time is ignored.
type HaversineProvider struct{}

func NewHaversineProvider() *HaversineProvider { return &HaversineProvider{} }

func (HaversineProvider) Route(ctx context.Context, r domain.RouteRequest) (domain.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RouteResult{}, err
	}

	speed, ok := averageSpeedKmh[r.Mode]
	if !ok {
		return domain.RouteResult{Status: "INVALID_REQUEST"}, nil
	}

	km := Haversine(r.Origin, r.Destination) / 1000
	minutes := km / speed * 60

	return domain.RouteResult{DurationMinutes: &minutes, DistanceKm: &km, Status: domain.StatusOK}, nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine computes the distance between two points in meters.
func Haversine(a, b domain.Coordinates) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon) - toRadians(a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}
