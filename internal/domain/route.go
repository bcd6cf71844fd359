package domain

// TravelMode selects the transport network used by the routing service.
type TravelMode string

const (
	ModeDriving   TravelMode = "driving"
	ModeWalking   TravelMode = "walking"
	ModeBicycling TravelMode = "bicycling"
	ModeTransit   TravelMode = "transit"
)

// AcceptsDeparture reports whether the routing service honours a departure
// instant (and traffic model) for this mode.
func (m TravelMode) AcceptsDeparture() bool {
	return m == ModeDriving || m == ModeTransit
}

// TrafficModel adjusts predicted duration under traffic uncertainty.
type TrafficModel string

const (
	TrafficBestGuess   TrafficModel = "best_guess"
	TrafficPessimistic TrafficModel = "pessimistic"
	TrafficOptimistic  TrafficModel = "optimistic"
)

// StatusOK is the status reported by the routing service for a resolved route.
const StatusOK = "OK"

// Represents a single origin-destination lookup.
// A RouteRequest is built per row and discarded after the call.
// DepartureTime and TrafficModel are only set for modes that accept them.
type RouteRequest struct {
	Origin        Coordinates
	Destination   Coordinates
	Mode          TravelMode
	DepartureTime *int64
	TrafficModel  TrafficModel
}

// Normalized outcome of a single route lookup.
// DurationMinutes and DistanceKm are nil unless Status is StatusOK.
type RouteResult struct {
	DurationMinutes *float64
	DistanceKm      *float64
	Status          string
}

// OK reports whether the route was resolved.
func (r RouteResult) OK() bool { return r.Status == StatusOK }

// FailedRoute builds the result recorded for a row whose lookup failed locally.
func FailedRoute(err error) RouteResult {
	return RouteResult{Status: "Error: " + err.Error()}
}
