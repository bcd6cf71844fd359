// Package departure turns a user supplied departure time into an absolute
// instant for the routing service.
package departure

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"travel-time-service/internal/domain"
)

// Layout is the accepted textual form, interpreted in UTC.
const Layout = "2006-01-02 15:04:05"

// Spec is one accepted shape of departure time input.
type Spec interface {
	isSpec()
}

// Unset means no departure time was requested.
type Unset struct{}

// Now resolves to the wall-clock time at resolution.
type Now struct{}

// Instant is an already absolute time.
type Instant struct{ Time time.Time }

// Text is a timestamp in Layout form.
type Text struct{ Value string }

// Epoch is a Unix timestamp in seconds.
type Epoch struct{ Seconds float64 }

func (Unset) isSpec()   {}
func (Now) isSpec()     {}
func (Instant) isSpec() {}
func (Text) isSpec()    {}
func (Epoch) isSpec()   {}

// ParseValue maps loosely typed input (decoded JSON, flags) onto a Spec.
// The token "now" is matched case-insensitively; any other string is Text.
func ParseValue(v any) (Spec, error) {
	switch x := v.(type) {
	case nil:
		return Unset{}, nil
	case Spec:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return Unset{}, nil
		}
		if strings.EqualFold(s, "now") {
			return Now{}, nil
		}
		return Text{Value: s}, nil
	case time.Time:
		return Instant{Time: x}, nil
	case *time.Time:
		if x == nil {
			return Unset{}, nil
		}
		return Instant{Time: *x}, nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, &domain.ParseError{Input: v, Err: err}
		}
		return Epoch{Seconds: f}, nil
	case float64:
		return Epoch{Seconds: x}, nil
	case float32:
		return Epoch{Seconds: float64(x)}, nil
	case int:
		return Epoch{Seconds: float64(x)}, nil
	case int64:
		return Epoch{Seconds: float64(x)}, nil
	default:
		return nil, &domain.ParseError{Input: v}
	}
}

var errNilSpec = errors.New("nil departure specification")
