package routing

import (
	"context"
	"fmt"
	"sync"

	"travel-time-service/internal/domain"
)

type MockRoute struct {
	From, To domain.Coordinates
	Meters   float64
	Seconds  float64
	// Status overrides "OK" when set.
	Status string
	// Err makes the lookup fail.
	Err error
}

// MockRouteProvider answers from a fixed table and records every request.
type MockRouteProvider struct {
	m map[string]MockRoute

	mu       sync.Mutex
	requests []domain.RouteRequest
}

func NewMockRouteProvider(routes []MockRoute) *MockRouteProvider {
	m := make(map[string]MockRoute, len(routes))
	for _, r := range routes {
		m[r.From.String()+"|"+r.To.String()] = r
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Route(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.RouteResult{}, err
	}

	r, ok := p.m[req.Origin.String()+"|"+req.Destination.String()]
	if !ok {
		return domain.RouteResult{}, fmt.Errorf("missing pair %s -> %s", req.Origin, req.Destination)
	}
	if r.Err != nil {
		return domain.RouteResult{}, r.Err
	}
	if r.Status != "" && r.Status != domain.StatusOK {
		return domain.RouteResult{Status: r.Status}, nil
	}

	minutes := r.Seconds / 60
	km := r.Meters / 1000
	return domain.RouteResult{DurationMinutes: &minutes, DistanceKm: &km, Status: domain.StatusOK}, nil
}

// Requests returns a copy of the requests received so far.
func (p *MockRouteProvider) Requests() []domain.RouteRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.RouteRequest, len(p.requests))
	copy(out, p.requests)
	return out
}
