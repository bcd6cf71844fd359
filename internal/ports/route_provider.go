package ports

import (
	"context"

	"travel-time-service/internal/domain"
)

// Contract for resolving travel time and distance for one route.
// An error means the lookup itself failed (transport, malformed response);
// a non-OK status reported by the routing service is returned as a result.
type RouteProvider interface {
	Route(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error)
}

// Builds a RouteProvider bound to an API credential.
type RouteProviderFactory func(apiKey string) (RouteProvider, error)
