package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"travel-time-service/internal/domain"
	"travel-time-service/internal/platform/obs"

	"go.uber.org/zap"
)

const DefaultGoogleBaseURL = "https://maps.googleapis.com"

type matrixValue struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type matrixElement struct {
	Status   string       `json:"status"`
	Duration *matrixValue `json:"duration"`
	Distance *matrixValue `json:"distance"`
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

// GoogleMatrixClient implements RouteProvider using the Google Distance Matrix API.
//
// Every call resolves exactly one origin and one destination. There is no
// retry and no caching; the transport timeout bounds each call.
type GoogleMatrixClient struct {
	session *http.Client
	apiKey  string
	baseURL string
	logger  *zap.Logger
}

type GoogleOption func(*GoogleMatrixClient)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) GoogleOption {
	return func(g *GoogleMatrixClient) { g.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-call transport timeout.
func WithTimeout(d time.Duration) GoogleOption {
	return func(g *GoogleMatrixClient) { g.session.Timeout = d }
}

func WithLogger(l *zap.Logger) GoogleOption {
	return func(g *GoogleMatrixClient) {
		if l != nil {
			g.logger = l
		}
	}
}

func NewGoogleMatrixClient(apiKey string, opts ...GoogleOption) (*GoogleMatrixClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("google api key is empty")
	}

	client := &GoogleMatrixClient{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: DefaultGoogleBaseURL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Route resolves one origin-destination pair.
func (g *GoogleMatrixClient) Route(
	ctx context.Context,
	r domain.RouteRequest,
) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, g.logger, "google.Route")(&err)

	endpoint := g.baseURL + "/maps/api/distancematrix/json"

	q := url.Values{}
	q.Set("origins", r.Origin.String())
	q.Set("destinations", r.Destination.String())
	q.Set("mode", string(r.Mode))
	if r.DepartureTime != nil {
		q.Set("departure_time", strconv.FormatInt(*r.DepartureTime, 10))
		if r.TrafficModel != "" {
			q.Set("traffic_model", string(r.TrafficModel))
		}
	}

	req, err := g.newRequest(ctx, endpoint, q)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("distance matrix request: %w", err)
	}

	resp, err := g.do(req)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return domain.RouteResult{}, fmt.Errorf("decode distance matrix response: %w", err)
	}

	if mr.Status != domain.StatusOK {
		if mr.ErrorMessage != "" {
			return domain.RouteResult{}, fmt.Errorf("%s: %s", mr.Status, mr.ErrorMessage)
		}
		return domain.RouteResult{}, fmt.Errorf("distance matrix status %s", mr.Status)
	}

	if len(mr.Rows) == 0 || len(mr.Rows[0].Elements) == 0 {
		return domain.RouteResult{}, errors.New("distance matrix response has no result element")
	}

	return normalize(mr.Rows[0].Elements[0])
}

// normalize converts an element into minutes and kilometers.
func normalize(el matrixElement) (domain.RouteResult, error) {
	if el.Status == "" {
		return domain.RouteResult{}, errors.New("distance matrix element has no status")
	}
	if el.Status != domain.StatusOK {
		return domain.RouteResult{Status: el.Status}, nil
	}
	if el.Duration == nil || el.Distance == nil {
		return domain.RouteResult{}, errors.New("distance matrix element is missing duration or distance")
	}

	minutes := el.Duration.Value / 60
	km := el.Distance.Value / 1000

	return domain.RouteResult{
		DurationMinutes: &minutes,
		DistanceKm:      &km,
		Status:          el.Status,
	}, nil
}
