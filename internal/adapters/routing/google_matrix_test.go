package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"travel-time-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*GoogleMatrixClient, *url.Values) {
	t.Helper()
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewGoogleMatrixClient("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)
	return c, &got
}

var nycToJfk = domain.RouteRequest{
	Origin:      domain.Coordinates{Lat: 40.7128, Lon: -74.006},
	Destination: domain.Coordinates{Lat: 40.6413, Lon: -73.7781},
	Mode:        domain.ModeDriving,
}

func TestGoogleRouteOK(t *testing.T) {
	c, q := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"OK",
			"duration":{"value":1830,"text":"31 mins"},
			"distance":{"value":26150,"text":"26.2 km"}}]}]}`))
	})

	res, err := c.Route(context.Background(), nycToJfk)
	require.NoError(t, err)

	assert.Equal(t, "OK", res.Status)
	require.NotNil(t, res.DurationMinutes)
	require.NotNil(t, res.DistanceKm)
	assert.InDelta(t, 30.5, *res.DurationMinutes, 1e-9)
	assert.InDelta(t, 26.15, *res.DistanceKm, 1e-9)

	assert.Equal(t, "40.7128,-74.006", q.Get("origins"))
	assert.Equal(t, "40.6413,-73.7781", q.Get("destinations"))
	assert.Equal(t, "driving", q.Get("mode"))
	assert.Equal(t, "test-key", q.Get("key"))
	assert.False(t, q.Has("departure_time"))
	assert.False(t, q.Has("traffic_model"))
}

func TestGoogleRouteForwardsDeparture(t *testing.T) {
	c, q := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"OK","duration":{"value":60},"distance":{"value":1000}}]}]}`))
	})

	dep := int64(1798761600)
	req := nycToJfk
	req.DepartureTime = &dep
	req.TrafficModel = domain.TrafficPessimistic

	_, err := c.Route(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "1798761600", q.Get("departure_time"))
	assert.Equal(t, "pessimistic", q.Get("traffic_model"))
}

func TestGoogleRouteElementStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"ZERO_RESULTS"}]}]}`))
	})

	res, err := c.Route(context.Background(), nycToJfk)
	require.NoError(t, err)
	assert.Equal(t, "ZERO_RESULTS", res.Status)
	assert.Nil(t, res.DurationMinutes)
	assert.Nil(t, res.DistanceKm)
}

func TestGoogleRouteFailures(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		body    string
		wantErr string
	}{
		{name: "request denied", code: 200, body: `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`, wantErr: "REQUEST_DENIED: The provided API key is invalid."},
		{name: "no rows", code: 200, body: `{"status":"OK","rows":[]}`, wantErr: "no result element"},
		{name: "no elements", code: 200, body: `{"status":"OK","rows":[{"elements":[]}]}`, wantErr: "no result element"},
		{name: "missing metrics", code: 200, body: `{"status":"OK","rows":[{"elements":[{"status":"OK"}]}]}`, wantErr: "missing duration or distance"},
		{name: "malformed", code: 200, body: `{"status":`, wantErr: "decode distance matrix response"},
		{name: "http error", code: 503, body: "unavailable", wantErr: "Code 503: unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			})

			_, err := c.Route(context.Background(), nycToJfk)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewGoogleMatrixClientRequiresKey(t *testing.T) {
	_, err := NewGoogleMatrixClient(" ")
	require.Error(t, err)
}

func TestHaversineProvider(t *testing.T) {
	res, err := NewHaversineProvider().Route(context.Background(), domain.RouteRequest{
		Origin:      domain.Coordinates{Lat: 0, Lon: 0},
		Destination: domain.Coordinates{Lat: 0, Lon: 1},
		Mode:        domain.ModeWalking,
	})
	require.NoError(t, err)
	require.True(t, res.OK())
	// One degree of longitude on the equator.
	assert.InDelta(t, 111.195, *res.DistanceKm, 0.01)
	assert.InDelta(t, *res.DistanceKm/5*60, *res.DurationMinutes, 1e-9)
}

func TestNewFactory(t *testing.T) {
	f, err := NewFactory(ProviderHaversine, "", 0, nil)
	require.NoError(t, err)
	p, err := f("")
	require.NoError(t, err)
	assert.IsType(t, &HaversineProvider{}, p)

	f, err = NewFactory(ProviderGoogle, "http://localhost:1", 0, nil)
	require.NoError(t, err)
	_, err = f("")
	require.Error(t, err)

	_, err = NewFactory("osrm", "", 0, nil)
	require.Error(t, err)
}
