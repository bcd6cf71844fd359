package departure

import (
	"fmt"
	"math"
	"time"

	"travel-time-service/internal/domain"

	"go.uber.org/zap"
)

// Resolver normalizes a Spec into epoch seconds.
type Resolver struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger, now: time.Now}
}

// WithClock returns a copy of r reading the current time from now.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	cp := *r
	cp.now = now
	return &cp
}

// Resolve returns the departure instant in epoch seconds. ok is false when no
// departure time was requested. Instants in the past are replaced by the
// current time and logged as a warning.
func (r *Resolver) Resolve(spec Spec) (epoch int64, ok bool, err error) {
	now := r.now()

	var at int64
	switch s := spec.(type) {
	case Unset:
		return 0, false, nil
	case Now:
		return now.Unix(), true, nil
	case Instant:
		at = s.Time.Unix()
	case Text:
		t, err := time.ParseInLocation(Layout, s.Value, time.UTC)
		if err != nil {
			return 0, false, &domain.ParseError{Input: s.Value, Err: err}
		}
		at = t.Unix()
	case Epoch:
		if math.IsNaN(s.Seconds) || math.IsInf(s.Seconds, 0) {
			return 0, false, &domain.ParseError{Input: s.Seconds, Err: fmt.Errorf("not a finite number")}
		}
		if s.Seconds >= 1<<63 || s.Seconds < -(1<<63) {
			return 0, false, &domain.ParseError{Input: s.Seconds, Err: fmt.Errorf("out of range")}
		}
		at = int64(s.Seconds)
	case nil:
		return 0, false, &domain.ParseError{Input: spec, Err: errNilSpec}
	default:
		return 0, false, &domain.ParseError{Input: spec}
	}

	if at < now.Unix() {
		r.logger.Warn("departure time is in the past, using current time",
			zap.Time("requested", time.Unix(at, 0).UTC()),
			zap.Time("now", now.UTC()),
		)
		return now.Unix(), true, nil
	}

	return at, true, nil
}
