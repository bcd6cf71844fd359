package routing

import (
	"fmt"
	"time"

	"travel-time-service/internal/ports"

	"go.uber.org/zap"
)

const (
	ProviderGoogle    = "google"
	ProviderHaversine = "haversine"
)

// NewFactory returns a factory for the named provider. Only the Google
// provider uses the API key.
func NewFactory(provider, baseURL string, timeout time.Duration, logger *zap.Logger) (ports.RouteProviderFactory, error) {
	switch provider {
	case ProviderGoogle, "":
		return func(apiKey string) (ports.RouteProvider, error) {
			opts := []GoogleOption{WithLogger(logger)}
			if baseURL != "" {
				opts = append(opts, WithBaseURL(baseURL))
			}
			if timeout > 0 {
				opts = append(opts, WithTimeout(timeout))
			}
			return NewGoogleMatrixClient(apiKey, opts...)
		}, nil
	case ProviderHaversine:
		return func(string) (ports.RouteProvider, error) {
			return NewHaversineProvider(), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown routing provider %q", provider)
	}
}
