package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatesString(t *testing.T) {
	assert.Equal(t, "40.7128,-74.006", Coordinates{Lat: 40.7128, Lon: -74.006}.String())
	assert.Equal(t, "0,0", Coordinates{}.String())
}

func TestFailedRoute(t *testing.T) {
	r := FailedRoute(errors.New("connection reset"))

	assert.Equal(t, "Error: connection reset", r.Status)
	assert.Nil(t, r.DurationMinutes)
	assert.Nil(t, r.DistanceKm)
	assert.False(t, r.OK())
}

func TestSummarize(t *testing.T) {
	d, km := 12.5, 4.2
	results := []RouteResult{
		{DurationMinutes: &d, DistanceKm: &km, Status: StatusOK},
		{Status: "ZERO_RESULTS"},
		FailedRoute(errors.New("timeout")),
	}

	assert.Equal(t, BatchSummary{Rows: 3, OK: 1, Failed: 2}, Summarize(results))
	assert.Equal(t, BatchSummary{}, Summarize(nil))
}

func TestTravelModeAcceptsDeparture(t *testing.T) {
	assert.True(t, ModeDriving.AcceptsDeparture())
	assert.True(t, ModeTransit.AcceptsDeparture())
	assert.False(t, ModeWalking.AcceptsDeparture())
	assert.False(t, ModeBicycling.AcceptsDeparture())
}

func TestErrorMessages(t *testing.T) {
	verr := &ValidationError{Msg: "missing required columns", Columns: []string{"dest_lat", "dest_lon"}}
	assert.EqualError(t, verr, "missing required columns: dest_lat, dest_lon")

	perr := &ParseError{Input: "tomorrow", Err: errors.New("bad layout")}
	assert.EqualError(t, perr, "parse departure time tomorrow: bad layout")

	var target *ParseError
	require.True(t, errors.As(error(perr), &target))
}
