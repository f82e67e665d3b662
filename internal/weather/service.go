package weather

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"unicode/utf8"
)

// maxNameLength bounds a place name after trimming.
const maxNameLength = 100

type fetchFunc func(ctx context.Context) (json.RawMessage, error)

// Service is the request gateway. It validates lookups, fans out the two
// upstream calls behind each one, and joins them all-or-nothing. A Service
// holds no per-lookup state and is safe for concurrent use.
type Service struct {
	provider Provider
}

// NewService creates a new Service over the given upstream provider.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// LookupByName fetches current conditions and the 5-day forecast for a place
// name. The name is trimmed before validation and the same sanitized value
// feeds both upstream calls. Validation failures issue no upstream call.
func (s *Service) LookupByName(ctx context.Context, name string) (Bundle, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Bundle{}, NewValidationError("city name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return Bundle{}, NewValidationError("city name must be at most 100 characters")
	}

	return s.lookup(ctx,
		func(ctx context.Context) (json.RawMessage, error) {
			return s.provider.CurrentByName(ctx, name)
		},
		func(ctx context.Context) (json.RawMessage, error) {
			return s.provider.ForecastByName(ctx, name)
		},
	)
}

// LookupByCoordinates fetches current conditions and the 5-day forecast for
// a coordinate pair, passing the raw numeric values through to the provider.
// Out-of-range and non-finite coordinates issue no upstream call.
func (s *Service) LookupByCoordinates(ctx context.Context, lat, lon float64) (Bundle, error) {
	// NaN fails every range comparison, so it needs its own check.
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Bundle{}, NewValidationError("latitude must be between -90 and 90")
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Bundle{}, NewValidationError("longitude must be between -180 and 180")
	}

	return s.lookup(ctx,
		func(ctx context.Context) (json.RawMessage, error) {
			return s.provider.CurrentByCoords(ctx, lat, lon)
		},
		func(ctx context.Context) (json.RawMessage, error) {
			return s.provider.ForecastByCoords(ctx, lat, lon)
		},
	)
}

// lookup runs the current and forecast calls concurrently and joins them
// all-or-nothing. Both calls are always awaited; the sibling of a failed
// call is never cancelled early, its result is simply discarded. On failure
// the first error in fixed order (current, then forecast) surfaces.
func (s *Service) lookup(ctx context.Context, current, forecast fetchFunc) (Bundle, error) {
	var (
		wg            sync.WaitGroup
		cur, fc       json.RawMessage
		curErr, fcErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cur, curErr = current(ctx)
	}()
	go func() {
		defer wg.Done()
		fc, fcErr = forecast(ctx)
	}()
	wg.Wait()

	if curErr != nil {
		return Bundle{}, curErr
	}
	if fcErr != nil {
		return Bundle{}, fcErr
	}

	return Bundle{CurrentWeather: cur, Forecast: fc}, nil
}
